package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"handwriting/config"
	"handwriting/internal/core"
	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/telemetry"

	"go.uber.org/zap"
)

type OpenAIService struct {
	HTTPClient *http.Client
	trace      *telemetry.Trace
	logger     *zap.Logger
	baseURL    string
	apiKey     string
	model      string
}

func NewOpenAIService(conf *config.Configuration, trace *telemetry.Trace, client *http.Client, logger *zap.Logger) Service {
	return &OpenAIService{
		HTTPClient: client,
		trace:      trace,
		logger:     logger,
		baseURL:    strings.TrimRight(conf.OpenAI.BaseURL, "/"),
		apiKey:     conf.OpenAI.APIKey,
		model:      conf.OpenAI.Model,
	}
}

// AnalyzeImage 先上傳到 /v1/files（purpose=vision），再以 file_id 呼叫 /v1/responses。
// 失敗分類：
//   - 本地檔案/序列化失敗：InternalServer
//   - 對外請求/非 2xx：UpstreamFailed，逾時為 GatewayTimeout
//   - 回應無法解析：UpstreamResponseInvalid
//   - 回應沒有文字：不算錯誤，Text 為 NO_OUTPUT
func (s *OpenAIService) AnalyzeImage(ctx context.Context, imagePath, prompt string) (*Result, error) {
	if s.apiKey == "" {
		return nil, cErr.UpstreamFailed("OPENAI__API_KEY is not configured")
	}
	fileID, err := s.uploadFile(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	return s.createResponse(ctx, fileID, prompt)
}

func (s *OpenAIService) uploadFile(ctx context.Context, imagePath string) (_ string, err error) {
	url := s.baseURL + string(core.OpenAIFilesEndpoint)
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanVisionFileUpload))
	defer func() { end(err) }()
	meta := core.TraceVisionMeta{Provider: "openai", Model: s.model, URL: url}

	// 1) multipart 組裝
	f, err := os.Open(imagePath)
	if err != nil {
		return "", cErr.InternalServer("open compressed image failed")
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("purpose", core.OpenAIFilePurposeVision); err != nil {
		return "", cErr.InternalServer("write purpose field failed")
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(imagePath)))
	h.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(h)
	if err != nil {
		return "", cErr.InternalServer("create file part failed")
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", cErr.InternalServer("copy image failed")
	}
	if err := writer.Close(); err != nil {
		return "", cErr.InternalServer("close multipart writer failed")
	}

	// 2) 請求
	body, status, err := s.do(ctx, url, writer.FormDataContentType(), &buf)
	meta.StatusCode = status
	s.trace.ApplyTraceAttributes(span, meta)
	if err != nil {
		return "", err
	}

	// 3) 解析
	var file fileObject
	if err := json.Unmarshal(body, &file); err != nil {
		return "", cErr.UpstreamResponseInvalid("decode openai file response failed")
	}
	if file.ID == "" {
		return "", cErr.UpstreamResponseInvalid("openai file response has no id")
	}
	meta.FileID = file.ID
	s.trace.ApplyTraceAttributes(span, meta)
	return file.ID, nil
}

func (s *OpenAIService) createResponse(ctx context.Context, fileID, prompt string) (_ *Result, err error) {
	url := s.baseURL + string(core.OpenAIResponsesEndpoint)
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanVisionResponses))
	defer func() { end(err) }()
	meta := core.TraceVisionMeta{Provider: "openai", Model: s.model, URL: url, FileID: fileID}

	payload, err := json.Marshal(responsesRequest{
		Model: s.model,
		Input: []inputMessage{{
			Role: "user",
			Content: []inputContent{
				{Type: "input_text", Text: prompt},
				{Type: "input_image", FileID: fileID},
			},
		}},
	})
	if err != nil {
		return nil, cErr.InternalServer("marshal responses payload failed")
	}

	body, status, err := s.do(ctx, url, "application/json", bytes.NewReader(payload))
	meta.StatusCode = status
	s.trace.ApplyTraceAttributes(span, meta)
	if err != nil {
		return nil, err
	}

	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, cErr.UpstreamResponseInvalid("decode openai responses body failed")
	}

	text, noOutput := extractText(resp.Output)
	if noOutput {
		s.logger.Warn("openai response has no text output, using sentinel",
			zap.String("response_id", resp.ID),
			zap.String("file_id", fileID),
		)
	}
	model := resp.Model
	if model == "" {
		model = s.model
	}
	return &Result{
		Text:     text,
		NoOutput: noOutput,
		Usage:    toCostUsage(resp.Usage),
		Model:    model,
		FileID:   fileID,
		Raw:      json.RawMessage(body),
	}, nil
}

// do 送出 POST，回傳解壓後的 body；非 2xx 一律視為 UpstreamFailed
func (s *OpenAIService) do(ctx context.Context, url, contentType string, body io.Reader) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, 0, cErr.InternalServer("create http request failed")
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := s.HTTPClient.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, 0, cErr.GatewayTimeout(fmt.Sprintf("openai request timed out: %v", err))
		}
		return nil, 0, cErr.UpstreamFailed(fmt.Sprintf("openai request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, cErr.UpstreamFailed(fmt.Sprintf("read openai response failed: %v", err))
	}
	decoded, err := decompressOnly(raw, resp.Header)
	if err != nil {
		return nil, resp.StatusCode, cErr.UpstreamResponseInvalid(fmt.Sprintf("decompress openai response failed: %v", err))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, cErr.UpstreamFailed(fmt.Sprintf("openai %s: %s", resp.Status, trimBody(decoded)))
	}
	return decoded, resp.StatusCode, nil
}
