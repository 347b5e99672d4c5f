package gemini

import (
	"context"
	"testing"

	"gemini-gateway/api/internal/llm"

	"github.com/google/generative-ai-go/genai"
	. "github.com/smartystreets/goconvey/convey"
)

func TestToGenai(t *testing.T) {
	Convey("Given gateway contents with text and inline data", t, func() {
		data := []byte("ID3\x03\x00\x00\x00")
		in := []llm.Content{
			llm.UserContent(llm.TextPart("Transkrip audio berikut:")),
			{Parts: []llm.Part{llm.InlinePart("audio/mpeg", data)}},
		}

		Convey("They become genai contents with raw bytes and a user role", func() {
			out, err := toGenai(in)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 2)
			So(out[0].Role, ShouldEqual, "user")
			So(out[0].Parts[0], ShouldResemble, genai.Text("Transkrip audio berikut:"))
			So(out[1].Role, ShouldEqual, "user")
			So(out[1].Parts[0], ShouldResemble, genai.Blob{MIMEType: "audio/mpeg", Data: data})
		})
	})

	Convey("Broken base64 is an error", t, func() {
		_, err := toGenai([]llm.Content{{Parts: []llm.Part{{InlineData: &llm.InlineData{MIMEType: "image/png", Data: "%%"}}}}})
		So(err, ShouldNotBeNil)
	})
}

func TestFromGenai(t *testing.T) {
	Convey("A genai response keeps candidate order and text parts", t, func() {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text("halo"), genai.Blob{MIMEType: "image/png", Data: []byte{1, 2}}}}},
			nil,
		}}
		out := fromGenai(resp)
		So(out.Candidates, ShouldHaveLength, 2)

		s, err := llm.Text(out)
		So(err, ShouldBeNil)
		So(s, ShouldEqual, "halo")

		b, err := out.Candidates[0].Content.Parts[1].InlineData.Bytes()
		So(err, ShouldBeNil)
		So(b, ShouldResemble, []byte{1, 2})
		So(out.Candidates[1].Content, ShouldBeNil)
	})

	Convey("A nil or empty response yields No result for the audio path", t, func() {
		So(llm.FirstTextOr(fromGenai(nil), llm.NoResult), ShouldEqual, llm.NoResult)
		So(llm.FirstTextOr(fromGenai(&genai.GenerateContentResponse{}), llm.NoResult), ShouldEqual, llm.NoResult)
		So(llm.FirstTextOr(fromGenai(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: nil}},
		}), llm.NoResult), ShouldEqual, llm.NoResult)
	})
}

func TestNew(t *testing.T) {
	Convey("Transport selection", t, func() {
		e, err := New(context.Background(), "rest", "key", "")
		So(err, ShouldBeNil)
		So(e.Name(), ShouldEqual, "gemini-rest")
		So(e.Close(), ShouldBeNil)

		_, err = New(context.Background(), "grpc", "key", "")
		So(err, ShouldNotBeNil)

		_, err = New(context.Background(), "sdk", "", "")
		So(err, ShouldNotBeNil)
	})
}
