package llm

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestText(t *testing.T) {
	Convey("Text joins the text parts of the first candidate", t, func() {
		resp := &Response{Candidates: []Candidate{
			{Content: &Content{Parts: []Part{TextPart("satu "), InlinePart("image/png", []byte{1}), TextPart("dua")}}},
			{Content: &Content{Parts: []Part{TextPart("ignored")}}},
		}}
		s, err := Text(resp)
		So(err, ShouldBeNil)
		So(s, ShouldEqual, "satu dua")
	})

	Convey("Text fails when there is nothing to read", t, func() {
		for _, resp := range []*Response{
			nil,
			{},
			{Candidates: []Candidate{{}}},
			{Candidates: []Candidate{{Content: &Content{Parts: []Part{InlinePart("image/png", []byte{1})}}}}},
		} {
			_, err := Text(resp)
			So(err, ShouldEqual, ErrNoText)
		}
	})
}

func TestFirstTextOr(t *testing.T) {
	Convey("Given responses with a broken chain", t, func() {
		empty := ""
		cases := []*Response{
			nil,
			{},
			{Candidates: []Candidate{{Content: nil}}},
			{Candidates: []Candidate{{Content: &Content{}}}},
			{Candidates: []Candidate{{Content: &Content{Parts: []Part{InlinePart("audio/wav", []byte{1})}}}}},
			{Candidates: []Candidate{{Content: &Content{Parts: []Part{{Text: &empty}}}}}},
		}
		Convey("The fallback is returned", func() {
			for _, resp := range cases {
				So(FirstTextOr(resp, NoResult), ShouldEqual, NoResult)
			}
		})
	})

	Convey("Only the first part of the first candidate is read", t, func() {
		resp := &Response{Candidates: []Candidate{
			{Content: &Content{Parts: []Part{TextPart("halo"), TextPart(" dunia")}}},
		}}
		So(FirstTextOr(resp, NoResult), ShouldEqual, "halo")
	})
}

func TestPartJSON(t *testing.T) {
	Convey("Response parts decode in either spelling", t, func() {
		var resp Response
		body := `{"candidates":[{"content":{"role":"model","parts":[
			{"text":"lihat"},
			{"inlineData":{"mimeType":"image/png","data":"AQI="}},
			{"inline_data":{"mime_type":"audio/wav","data":"Aw=="}}]}}]}`
		So(json.Unmarshal([]byte(body), &resp), ShouldBeNil)

		parts := resp.Candidates[0].Content.Parts
		So(parts, ShouldHaveLength, 3)
		So(*parts[0].Text, ShouldEqual, "lihat")
		So(parts[0].InlineData, ShouldBeNil)
		So(parts[1].InlineData.MIMEType, ShouldEqual, "image/png")
		b, err := parts[1].InlineData.Bytes()
		So(err, ShouldBeNil)
		So(b, ShouldResemble, []byte{1, 2})
		So(parts[2].InlineData.MIMEType, ShouldEqual, "audio/wav")
	})

	Convey("Requests still go out in snake case", t, func() {
		b, err := json.Marshal(InlinePart("image/png", []byte{1}))
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `{"inline_data":{"mime_type":"image/png","data":"AQ=="}}`)
	})
}

func TestInlinePart(t *testing.T) {
	Convey("Inline data survives the base64 step byte for byte", t, func() {
		data := make([]byte, 256)
		for i := range data {
			data[i] = byte(i)
		}
		p := InlinePart("application/octet-stream", data)
		So(p.Text, ShouldBeNil)

		got, err := p.InlineData.Bytes()
		So(err, ShouldBeNil)
		So(got, ShouldResemble, data)
	})
}
