package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/repository"
	"github.com/andinotravel/reservas/utils"
	"github.com/xuri/excelize/v2"
)

// AdminReportFlow builds downloadable operational reports
type AdminReportFlow interface {
	RescheduleReportXLSX(ctx context.Context, req *dto.RescheduleReportRequest) (string, []byte, error)
}

// AdminReportFlowImpl implements AdminReportFlow
type AdminReportFlowImpl struct {
	historyRepo     repository.RescheduleHistoryRepository
	reservationRepo repository.ReservationRepository
	clock           Clock
}

func NewAdminReportFlow(historyRepo repository.RescheduleHistoryRepository, reservationRepo repository.ReservationRepository, clock Clock) AdminReportFlow {
	if clock == nil {
		clock = SystemClock
	}
	return &AdminReportFlowImpl{
		historyRepo:     historyRepo,
		reservationRepo: reservationRepo,
		clock:           clock,
	}
}

// RescheduleReportXLSX exports the reschedule history of a period as a
// workbook. Returns the suggested filename and the file contents.
func (f *AdminReportFlowImpl) RescheduleReportXLSX(ctx context.Context, req *dto.RescheduleReportRequest) (string, []byte, error) {
	from, to := utils.MinDate, utils.MaxDate
	if req.From != nil {
		from = req.From.UTC()
	}
	if req.To != nil {
		to = req.To.UTC()
	}

	rows, err := f.historyRepo.ListBetween(ctx, from, to)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to load reschedule history", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Reschedules"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "reservation_id", "reservation_uuid", "previous_date", "new_date", "reason", "rescheduled_by", "notification_sent", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, row := range rows {
		reservationUUID := ""
		if reservation, err := f.reservationRepo.ByID(ctx, row.ReservationID); err == nil && reservation != nil {
			reservationUUID = reservation.UUID.String()
		}
		actor := ""
		if row.RescheduledByID != nil {
			actor = strconv.FormatUint(uint64(*row.RescheduledByID), 10)
		}
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			strconv.FormatUint(uint64(row.ReservationID), 10),
			reservationUUID,
			row.PreviousDate.UTC().Format(time.RFC3339),
			row.NewDate.UTC().Format(time.RFC3339),
			row.Reason,
			actor,
			strconv.FormatBool(row.NotificationSent),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	var buf bytes.Buffer
	if err := xl.Write(&buf); err != nil {
		return "", nil, NewBusinessError("REPORT_WRITE_FAILED", "Failed to build report file", err)
	}

	filename := fmt.Sprintf("reschedules_%s.xlsx", f.clock().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}
