package dto

import (
	"time"

	"github.com/phoexer/openproject/internal/model"
)

type ListJournalsRequest struct {
	Limit int32 `form:"limit" binding:"omitempty,min=1,max=100"`
}

type JournalResponse struct {
	ID            int64     `json:"id,string"`
	WorkPackageID int64     `json:"work_package_id"`
	UserID        int64     `json:"user_id"`
	DeliveryID    string    `json:"delivery_id"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListJournalsResponse struct {
	Journals []JournalResponse `json:"journals"`
}

func ToJournalResponse(j model.Journal) JournalResponse {
	return JournalResponse{
		ID:            j.ID,
		WorkPackageID: j.WorkPackageID,
		UserID:        j.UserID,
		DeliveryID:    j.DeliveryID,
		Notes:         j.Notes,
		CreatedAt:     j.CreatedAt,
	}
}

func ToListJournalsResponse(journals []model.Journal) ListJournalsResponse {
	out := ListJournalsResponse{Journals: make([]JournalResponse, 0, len(journals))}
	for _, j := range journals {
		out.Journals = append(out.Journals, ToJournalResponse(j))
	}
	return out
}
