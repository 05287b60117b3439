package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/service"
	"gstdesk/mocks"
)

func TestComplianceService_Score(t *testing.T) {
	repo := new(mocks.MockFilingReturnRepo)
	svc := service.NewComplianceService(repo, gst.DefaultWeights(), fixedCalendar(2026, time.June, 1))

	businessID := uuid.New()
	onTime := day(2026, time.April, 18)
	late := day(2026, time.March, 25)
	repo.On("ListAll", mock.Anything, businessID).Return([]domain.FilingReturn{
		{Status: gst.FilingPending, DueDate: day(2026, time.May, 20)},
		{Status: gst.FilingPending, DueDate: day(2026, time.June, 11)},
		{Status: gst.FilingFiled, DueDate: day(2026, time.April, 20), FiledDate: &onTime},
		{Status: gst.FilingFiled, DueDate: day(2026, time.March, 20), FiledDate: &late},
	}, nil)

	score, err := svc.Score(context.Background(), businessID)

	require.NoError(t, err)
	assert.Equal(t, 1, score.OverdueCount)
	assert.Equal(t, 1, score.LateCount)
	assert.Equal(t, 1, score.OnTimeCount)
	assert.Equal(t, 100-15-5+2, score.Score)
	assert.Equal(t, gst.RatingGood, score.Rating)
}

func TestComplianceService_Score_CustomWeights(t *testing.T) {
	repo := new(mocks.MockFilingReturnRepo)
	w := gst.DefaultWeights()
	w.OverduePenalty = 60
	svc := service.NewComplianceService(repo, w, fixedCalendar(2026, time.June, 1))

	businessID := uuid.New()
	repo.On("ListAll", mock.Anything, businessID).Return([]domain.FilingReturn{
		{Status: gst.FilingPending, DueDate: day(2026, time.May, 20)},
	}, nil)

	score, err := svc.Score(context.Background(), businessID)

	require.NoError(t, err)
	assert.Equal(t, 40, score.Score)
	assert.Equal(t, gst.RatingPoor, score.Rating)
}

func TestComplianceService_Score_RepoError(t *testing.T) {
	repo := new(mocks.MockFilingReturnRepo)
	svc := service.NewComplianceService(repo, gst.DefaultWeights(), fixedCalendar(2026, time.June, 1))

	repo.On("ListAll", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	score, err := svc.Score(context.Background(), uuid.New())

	assert.Nil(t, score)
	assert.Error(t, err)
}
