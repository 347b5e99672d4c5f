package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"gemini-gateway/api/internal/util"
)

// Upload: загруженный файл. Живёт только в памяти и только на время запроса.
type Upload struct {
	Data     []byte
	MIMEType string
	Filename string
}

func (u *Upload) Hash() string { return util.SHA256Hex(u.Data) }

type input struct {
	Prompt string
	Upload *Upload
}

// readInput достаёт prompt и (если fileField не пуст) файл из тела запроса.
// multipart/form-data: файл в поле fileField;
// application/json: файл строкой base64 или data:URL в том же поле, MIME в "mime_type";
// x-www-form-urlencoded: только prompt.
// Прочие типы тела дают пустой ввод.
func (h *Handle) readInput(r *http.Request, fileField string) (input, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case ct == "multipart/form-data":
		return h.readMultipart(r, fileField)
	case ct == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return input{}, bodyError(err)
		}
		return input{Prompt: r.PostFormValue("prompt")}, nil
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		return h.readJSON(r, fileField)
	default:
		return input{}, nil
	}
}

func (h *Handle) readMultipart(r *http.Request, fileField string) (input, error) {
	// Память = весь лимит тела: файлы не уходят во временные файлы на диске.
	if err := r.ParseMultipartForm(h.maxBody()); err != nil {
		return input{}, bodyError(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := input{Prompt: r.FormValue("prompt")}
	if fileField == "" {
		return in, nil
	}

	f, fh, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return input{}, bodyError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return input{}, bodyError(err)
	}
	if err := h.checkSize(data); err != nil {
		return input{}, err
	}
	in.Upload = &Upload{
		Data:     data,
		MIMEType: util.PickMIME(fh.Header.Get("Content-Type"), "", data),
		Filename: fh.Filename,
	}
	return in, nil
}

func (h *Handle) readJSON(r *http.Request, fileField string) (input, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return input{}, nil
		}
		return input{}, bodyError(err)
	}

	var in input
	prompt, err := jsonString(body, "prompt")
	if err != nil {
		return input{}, err
	}
	in.Prompt = prompt

	if fileField == "" {
		return in, nil
	}
	raw, err := jsonString(body, fileField)
	if err != nil || strings.TrimSpace(raw) == "" {
		return in, err
	}
	data, hint, err := util.DecodeUpload(raw)
	if err != nil {
		return input{}, ValidationError(fmt.Sprintf("%s: bad base64", fileField))
	}
	if err := h.checkSize(data); err != nil {
		return input{}, err
	}
	explicit, err := jsonString(body, "mime_type")
	if err != nil {
		return input{}, err
	}
	in.Upload = &Upload{Data: data, MIMEType: util.PickMIME(explicit, hint, data)}
	return in, nil
}

func jsonString(body map[string]json.RawMessage, key string) (string, error) {
	raw, ok := body[key]
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", ValidationError(key + " must be a string")
	}
	return s, nil
}

func (h *Handle) checkSize(data []byte) error {
	if int64(len(data)) > h.maxUpload {
		return ValidationError(fmt.Sprintf("file exceeds %d bytes", h.maxUpload))
	}
	return nil
}

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return ValidationError(fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
	}
	return ValidationError("bad request body: " + err.Error())
}
