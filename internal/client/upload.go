package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type Upload struct {
	Name    string
	Content io.Reader
	// AttachToChat 为 true 时附加 chat=1
	// AttachToChat adds chat=1 to the form
	AttachToChat bool
}

type UploadResult struct {
	Host     string
	File     string
	Filename string
	Raw      any
}

// UploadFile 以 multipart 提交文件；只附加认证头，Content-Type 由表单决定
// UploadFile posts a multipart form; only the auth header is added, the form sets its own Content-Type
func (c *Client) UploadFile(ctx context.Context, up Upload) (UploadResult, error) {
	if up.Content == nil || strings.TrimSpace(up.Name) == "" {
		return UploadResult{}, &ValidationError{Field: "file", Message: "no file selected"}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(up.Name))
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if up.AttachToChat {
		if err := w.WriteField("chat", "1"); err != nil {
			return UploadResult{}, fmt.Errorf("write chat field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close form: %w", err)
	}

	resp, err := c.Request(ctx, "v1/upload/file", RequestOptions{
		Method: http.MethodPost,
		Body:   &Multipart{ContentType: w.FormDataContentType(), Body: &buf},
	})
	if err != nil {
		return UploadResult{}, err
	}
	out := UploadResult{Raw: resp}
	if m, ok := ExtractData(resp).(map[string]any); ok {
		out.Host = Stringify(m["host"])
		out.File = Stringify(m["file"])
		out.Filename = Stringify(m["filename"])
	}
	return out, nil
}

// UploadPath 读取本地文件并上传
// UploadPath reads a local file and uploads it
func (c *Client) UploadPath(ctx context.Context, path string, attachToChat bool) (UploadResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return UploadResult{}, &ValidationError{Field: "file", Message: "no file selected"}
	}
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, &ValidationError{Field: "file", Message: err.Error()}
	}
	defer f.Close()
	return c.UploadFile(ctx, Upload{Name: path, Content: f, AttachToChat: attachToChat})
}
