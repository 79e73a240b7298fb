package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mroshb/dice_game/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetAccounts = "Accounts"
	SheetRooms    = "Rooms"
	SheetGames    = "Games"
)

// Source is the read side the report is built from. The repositories
// satisfy it together through Store.
type Source interface {
	ListAccounts(ctx context.Context, limit int) ([]models.Account, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListRecords(ctx context.Context, limit int) ([]models.GameRecord, error)
}

var (
	accountHeader = []interface{}{"ID", "Telegram ID", "Balance", "Wins", "Losses", "Referral Code", "Referred By", "Referral Earnings", "Created At"}
	roomHeader    = []interface{}{"ID", "Room ID", "Creator", "Players", "Max Players", "Total Bet", "Status", "Created At"}
	gameHeader    = []interface{}{"ID", "Account ID", "Die 1", "Die 2", "Die 3", "Total", "Outcome", "Balance After", "Created At"}
)

// BuildWorkbook loads up to limit accounts and games plus every room into a
// three-sheet workbook. The caller closes the returned file.
func BuildWorkbook(ctx context.Context, src Source, limit int) (*excelize.File, error) {
	accounts, err := src.ListAccounts(ctx, limit)
	if err != nil {
		return nil, err
	}
	rooms, err := src.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	records, err := src.ListRecords(ctx, limit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetAccounts); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetRooms, SheetGames} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	accountRows := make([][]interface{}, 0, len(accounts))
	for _, a := range accounts {
		accountRows = append(accountRows, []interface{}{
			a.ID, a.TelegramID, a.Balance.InexactFloat64(), a.WinCount, a.LoseCount,
			a.ReferralCode, a.ReferredBy, a.ReferralEarnings.InexactFloat64(), formatTime(a.CreatedAt),
		})
	}

	roomRows := make([][]interface{}, 0, len(rooms))
	for _, r := range rooms {
		roomRows = append(roomRows, []interface{}{
			r.ID, r.RoomID, r.Creator, r.CurrentPlayers, r.MaxPlayers,
			r.TotalBetAmount.InexactFloat64(), r.Status, formatTime(r.CreatedAt),
		})
	}

	gameRows := make([][]interface{}, 0, len(records))
	for _, g := range records {
		gameRows = append(gameRows, []interface{}{
			g.ID, g.AccountID, g.Die1, g.Die2, g.Die3, g.Total,
			g.Outcome, g.BalanceAfter.InexactFloat64(), formatTime(g.CreatedAt),
		})
	}

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{SheetAccounts, accountHeader, accountRows},
		{SheetRooms, roomHeader, roomRows},
		{SheetGames, gameHeader, gameRows},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteReport streams the workbook to w.
func WriteReport(ctx context.Context, src Source, limit int, w io.Writer) error {
	f, err := BuildWorkbook(ctx, src, limit)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
