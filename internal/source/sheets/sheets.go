// Package sheets reads the payroll workbook straight from a Google
// Spreadsheet with service-account credentials. Used by deployments where
// the workbook lives in Drive instead of behind a download URL.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
	"masasalarial/internal/source"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	detailSheet   string
	annualSheet   string
	logger        *log.Logger
}

var _ source.Reader = (*Client)(nil)

// Options carries what New needs: the spreadsheet, the sheet names, and the
// service-account credentials. Inline JSON wins over a file path.
type Options struct {
	SpreadsheetID   string
	DetailSheet     string
	AnnualSheet     string
	CredentialsJSON string
	CredentialsFile string
}

// New builds a read-only client authenticated with a service account.
func New(ctx context.Context, opts Options, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	credentials, err := resolveCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		detailSheet:   opts.DetailSheet,
		annualSheet:   opts.AnnualSheet,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

func resolveCredentials(opts Options) ([]byte, error) {
	if inline := strings.TrimSpace(opts.CredentialsJSON); inline != "" {
		return []byte(inline), nil
	}
	if opts.CredentialsFile != "" {
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials")
}

func (c *Client) Tables(ctx context.Context) (source.Tables, error) {
	detail, err := c.readSheet(ctx, c.detailSheet)
	if err != nil {
		return source.Tables{}, fmt.Errorf("detail sheet %q: %w", c.detailSheet, err)
	}

	out := source.Tables{Detail: payroll.Table{Name: c.detailSheet, Cells: detail}}

	if c.annualSheet != "" {
		if annual, err := c.readSheet(ctx, c.annualSheet); err != nil {
			c.logger.WarnContext(ctx, "annual sheet unreadable, continuing without it",
				log.FieldSheet, c.annualSheet, log.FieldError, err.Error())
		} else {
			out.Annual = &payroll.Table{Name: c.annualSheet, Cells: annual}
		}
	}

	out.Fingerprint = source.FingerprintTables(&out.Detail, out.Annual)
	return out, nil
}

func (c *Client) readSheet(ctx context.Context, name string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(name)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	cells := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells[i] = toStrings(row)
	}
	return cells, nil
}

// sheetRange quotes a sheet name into an A1 range covering every cell.
// Quoting is mandatory for names with spaces, like "Evolución Anual".
func sheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
