package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/khata-erp/khata-erp/internal/printing"
	"github.com/khata-erp/khata-erp/internal/templates"
)

// Client wraps the HTML-to-PDF render service that drives the cheque
// printer. It satisfies the printing service's Printer port.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks if the remote render service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("render service returned status %d", resp.StatusCode)
	}
	return nil
}

// Print lays out one cheque as HTML and submits it to the render
// service, which hands the resulting page to the attached printer.
func (c *Client) Print(ctx context.Context, bundle printing.RenderBundle) error {
	_, err := c.RenderHTML(ctx, ChequeHTML(bundle))
	return err
}

// RenderHTML converts raw HTML into a PDF document.
func (c *Client) RenderHTML(ctx context.Context, doc string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "document.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, bytes.NewBufferString(doc)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/forms/chromium/convert/html", c.baseURL), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("render failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ChequeHTML positions the bundle's fields on a page matching the
// cheque stock, using the bank layout resolved by the engine.
func ChequeHTML(bundle printing.RenderBundle) string {
	tmpl := bundle.Template

	var buf bytes.Buffer
	buf.WriteString("<html><head><style>")
	fmt.Fprintf(&buf, "@page{size:%.1fmm %.1fmm;margin:0;}", templates.StandardWidthMM, templates.StandardHeightMM)
	fmt.Fprintf(&buf, "body{margin:0;font-family:%s;font-size:%.1fpt;position:relative;}",
		tmpl.Font.Family, tmpl.Font.SizePt)
	buf.WriteString(".f{position:absolute;white-space:nowrap;}")
	buf.WriteString("</style></head><body>")

	writeField := func(name, text string) {
		pos, ok := tmpl.Fields[name]
		if !ok || text == "" {
			return
		}
		x, y := pos.X, pos.Y
		if tmpl.Unit == templates.UnitPercent {
			// Normalized layouts hold fractions of the standard stock.
			x *= templates.StandardWidthMM
			y *= templates.StandardHeightMM
		}
		fmt.Fprintf(&buf, `<div class="f" style="left:%.2fmm;top:%.2fmm;">%s</div>`,
			x, y, html.EscapeString(text))
	}

	writeField(templates.FieldDate, bundle.ChequeDate.Format("02/01/2006"))
	writeField(templates.FieldPayee, bundle.PayeeName)
	writeField(templates.FieldAmountWords, bundle.AmountWords)
	writeField(templates.FieldAmountFigures, bundle.AmountFigures)
	if bundle.IsACPayee {
		writeField(templates.FieldACPayee, "A/C PAYEE ONLY")
	}

	buf.WriteString("</body></html>")
	return buf.String()
}
