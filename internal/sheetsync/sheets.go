package sheetsync

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// DefaultWriteRange is the sheet range rows are appended under.
const DefaultWriteRange = "Expenses!A:I"

// SheetsAppender is the RowAppender backed by the Google Sheets API.
type SheetsAppender struct {
	srv           *sheets.Service
	spreadsheetID string
	writeRange    string
}

// NewSheetsAppender creates an appender for the given spreadsheet. An empty
// writeRange selects DefaultWriteRange. Credentials come from the ambient
// Google application default credentials.
func NewSheetsAppender(ctx context.Context, spreadsheetID, writeRange string) (*SheetsAppender, error) {
	if writeRange == "" {
		writeRange = DefaultWriteRange
	}
	srv, err := sheets.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewSheetsAppender: create sheets service: %w", err)
	}
	return &SheetsAppender{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
	}, nil
}

// AppendRows implements RowAppender.
func (a *SheetsAppender) AppendRows(ctx context.Context, values [][]interface{}) error {
	body := &sheets.ValueRange{Values: values}
	_, err := a.srv.Spreadsheets.Values.Append(a.spreadsheetID, a.writeRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("AppendRows: %w", err)
	}
	return nil
}

// Ensure SheetsAppender implements RowAppender.
var _ RowAppender = (*SheetsAppender)(nil)
