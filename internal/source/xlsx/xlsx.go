// Package xlsx reads the payroll workbook with excelize, from a URL or a
// local file. Every Tables call re-reads the source; change detection
// happens upstream via the content fingerprint.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
	"masasalarial/internal/source"
)

// maxWorkbookBytes caps a download. The production workbook is under 2 MB;
// anything near this limit is a misconfigured URL, not payroll data.
const maxWorkbookBytes = 64 << 20

type Client struct {
	url         string
	file        string
	detailSheet string
	annualSheet string
	httpc       *http.Client
	logger      *log.Logger
}

var _ source.Reader = (*Client)(nil)

// NewFromURL builds a client that downloads the workbook on every read.
func NewFromURL(url, detailSheet, annualSheet string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		url:         url,
		detailSheet: detailSheet,
		annualSheet: annualSheet,
		httpc:       &http.Client{Timeout: timeout},
		logger:      logger.WithComponent(log.ComponentXLSX),
	}
}

// NewFromFile builds a client that reads the workbook from disk on every read.
func NewFromFile(path, detailSheet, annualSheet string, logger *log.Logger) *Client {
	return &Client{
		file:        path,
		detailSheet: detailSheet,
		annualSheet: annualSheet,
		logger:      logger.WithComponent(log.ComponentXLSX),
	}
}

func (c *Client) Tables(ctx context.Context) (source.Tables, error) {
	data, err := c.payload(ctx)
	if err != nil {
		return source.Tables{}, err
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return source.Tables{}, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	if idx, _ := wb.GetSheetIndex(c.detailSheet); idx < 0 {
		return source.Tables{}, fmt.Errorf("detail sheet %q: %w", c.detailSheet, source.ErrSheetNotFound)
	}
	detailCells, err := wb.GetRows(c.detailSheet)
	if err != nil {
		return source.Tables{}, fmt.Errorf("read sheet %q: %w", c.detailSheet, err)
	}

	out := source.Tables{
		Detail:      payroll.Table{Name: c.detailSheet, Cells: detailCells},
		Fingerprint: source.Fingerprint(data),
	}

	if c.annualSheet != "" {
		if idx, _ := wb.GetSheetIndex(c.annualSheet); idx < 0 {
			c.logger.DebugContext(ctx, "annual sheet absent from workbook", log.FieldSheet, c.annualSheet)
		} else if annualCells, err := wb.GetRows(c.annualSheet); err != nil {
			c.logger.WarnContext(ctx, "annual sheet unreadable, continuing without it",
				log.FieldSheet, c.annualSheet, log.FieldError, err.Error())
		} else {
			out.Annual = &payroll.Table{Name: c.annualSheet, Cells: annualCells}
		}
	}

	return out, nil
}

func (c *Client) payload(ctx context.Context) ([]byte, error) {
	if c.file != "" {
		data, err := os.ReadFile(c.file)
		if err != nil {
			return nil, fmt.Errorf("read workbook file: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build workbook request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch workbook: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxWorkbookBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read workbook body: %w", err)
	}
	if len(data) > maxWorkbookBytes {
		return nil, fmt.Errorf("workbook exceeds %d bytes", maxWorkbookBytes)
	}
	c.logger.DebugContext(ctx, "workbook fetched", log.FieldURL, c.url, "bytes", len(data))
	return data, nil
}
