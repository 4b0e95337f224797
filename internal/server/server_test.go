package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khemrajubaledeloitte/ocr-test/internal/config"
	"github.com/khemrajubaledeloitte/ocr-test/internal/ocr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var scenarioText = strings.Join([]string{
	"ACME COMPANY NAME CORP",
	"Bill To:",
	"123 Main St",
	"Ship To:",
	"456 Oak Ave",
	"Invoice #A12345B",
	"Date: 01/15/2024",
	"Description  Amount",
	"Widget",
	"$10.00",
	"Total Due: $10.00",
}, "\n")

type testProcessor struct {
	text string
	err  error
}

func (t *testProcessor) ExtractText(ctx context.Context, imagePath string, opts ocr.Options) (ocr.Result, error) {
	if t.err != nil {
		return ocr.Result{}, t.err
	}
	return ocr.Result{Engine: "test", Text: t.text, Lines: ocr.SplitLines(t.text)}, nil
}

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			APIKey:         apiKey,
			AllowOrigins:   []string{"*"},
			MaxUploadBytes: 1 << 20,
		},
		OCR:     config.OCRConfig{Engine: ocr.EngineTesseract, Language: "eng", Timeout: time.Second},
		Invoice: config.InvoiceConfig{Profile: "full"},
	}
}

func TestServer_OCRFlowWithAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(testConfig("secret"), &testProcessor{text: scenarioText}, zap.NewNop())

	ts := httptest.NewServer(r)
	defer ts.Close()

	// Missing key => 401
	req := newFileRequest(t, ts.URL+"/api/v1/ocr/image", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Include key => 200
	req = newFileRequest(t, ts.URL+"/api/v1/ocr/image", map[string]string{"lang": "eng"})
	req.Header.Set("x-api-key", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(bodyBytes), "Invoice #A12345B") {
		t.Fatalf("response missing expected text: %s", bodyBytes)
	}
}

func TestServer_LegacyExtractText(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(testConfig(""), &testProcessor{text: "hello"}, zap.NewNop())
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.DefaultClient.Do(newFileRequest(t, ts.URL+"/extract-text/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["filename"] != "invoice.png" || body["extracted_text"] != "hello" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestServer_InvoiceFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(testConfig(""), &testProcessor{text: scenarioText}, zap.NewNop())
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.DefaultClient.Do(newFileRequest(t, ts.URL+"/api/v1/invoice/image", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	var body struct {
		Profile string `json:"profile"`
		Invoice struct {
			CompanyName   *string  `json:"company_name"`
			BillTo        []string `json:"bill_to"`
			ShipTo        []string `json:"ship_to"`
			InvoiceNumber *string  `json:"invoice_number"`
			DateOfIssue   *string  `json:"date_of_issue"`
			InvoiceTotal  *string  `json:"invoice_total"`
			Description   []string `json:"description"`
			Amounts       []string `json:"amounts"`
		} `json:"invoice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	inv := body.Invoice
	if body.Profile != "full" {
		t.Fatalf("expected configured default profile, got %q", body.Profile)
	}
	if inv.InvoiceNumber == nil || *inv.InvoiceNumber != "12345" {
		t.Fatalf("unexpected invoice number: %v", inv.InvoiceNumber)
	}
	if inv.DateOfIssue == nil || *inv.DateOfIssue != "01/15/2024" {
		t.Fatalf("unexpected date: %v", inv.DateOfIssue)
	}
	if inv.InvoiceTotal == nil || *inv.InvoiceTotal != "$10.00" {
		t.Fatalf("unexpected total: %v", inv.InvoiceTotal)
	}
	if len(inv.BillTo) != 1 || len(inv.ShipTo) != 1 || len(inv.Description) != 1 || len(inv.Amounts) != 1 {
		t.Fatalf("unexpected blocks: %+v", inv)
	}
}

func TestServer_OCRFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(testConfig(""), &testProcessor{err: io.ErrUnexpectedEOF}, zap.NewNop())
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.DefaultClient.Do(newFileRequest(t, ts.URL+"/api/v1/invoice/image", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.StatusCode)
	}
}

func TestServer_ImagePixelLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig("")
	cfg.OCR.MaxPixels = 63 // uploads are 8x8
	proc := &testProcessor{text: scenarioText}
	r := newRouter(cfg, proc, zap.NewNop())
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.DefaultClient.Do(newFileRequest(t, ts.URL+"/api/v1/invoice/image", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", resp.StatusCode)
	}
}

func TestNewRouter_UnknownEngine(t *testing.T) {
	cfg := testConfig("")
	cfg.OCR.Engine = "abbyy"
	if _, err := NewRouter(cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func newFileRequest(t *testing.T, url string, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := writer.CreateFormFile("file", "invoice.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if err := png.Encode(part, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
