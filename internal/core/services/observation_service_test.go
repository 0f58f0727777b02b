package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string    { return &s }
func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool       { return &v }

func newObservationService(
	obsRepo *MockObservationRepository,
	residentRepo *MockResidentRepository,
	workerRepo *MockWorkerRepository,
	predictions *MockPredictionService,
	publisher *MockAlertPublisher,
) *services.ObservationService {
	return services.NewObservationService(obsRepo, residentRepo, workerRepo, predictions, publisher, fixedClock)
}

func TestCreateObservation_StampsDerivedFlagsAndRollingStats(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	residentRepo := new(MockResidentRepository)
	workerRepo := new(MockWorkerRepository)
	predictions := new(MockPredictionService)
	publisher := new(MockAlertPublisher)
	svc := newObservationService(obsRepo, residentRepo, workerRepo, predictions, publisher)

	residentID := uuid.New()
	workerID := uuid.New()
	history := []*domain.ShiftObservation{
		{ResidentID: residentID, Timestamp: testNow.Add(-24 * time.Hour), HeartRate: intPtr(80)},
	}

	residentRepo.On("Exists", mock.Anything, residentID).Return(true, nil)
	workerRepo.On("Exists", mock.Anything, workerID).Return(true, nil)
	obsRepo.On("ListByResident", mock.Anything, residentID).Return(history, nil)
	predictions.On("FallRiskProbability", mock.Anything, residentID).Return(0.15)
	obsRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := services.CreateObservationRequest{
		ResidentID:   residentID,
		WorkerID:     workerID,
		MoodBaseline: strPtr("Sad/tearful"),
		HeartRate:    intPtr(72),
	}

	obs, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, obs)

	assert.NotEqual(t, uuid.Nil, obs.ID)
	assert.Equal(t, testNow, obs.Timestamp)
	assert.Equal(t, domain.TimeOfDayAfternoon, obs.TimeOfDay)
	assert.True(t, obs.DepressionFlag)

	// Rolling stats anchored at the recording time, computed from the
	// history fetched before the insert
	require.NotNil(t, obs.HR7dMean)
	assert.Equal(t, 80.0, *obs.HR7dMean)
	require.NotNil(t, obs.PriorFall90d)
	assert.Equal(t, 0, *obs.PriorFall90d)
	require.NotNil(t, obs.FallNext7d)
	assert.Equal(t, 0.15, *obs.FallNext7d)

	publisher.AssertNotCalled(t, "PublishAttentionAlert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateObservation_CriticalFlagsPublishAlert(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	residentRepo := new(MockResidentRepository)
	workerRepo := new(MockWorkerRepository)
	predictions := new(MockPredictionService)
	publisher := new(MockAlertPublisher)
	svc := newObservationService(obsRepo, residentRepo, workerRepo, predictions, publisher)

	residentID := uuid.New()
	workerID := uuid.New()

	residentRepo.On("Exists", mock.Anything, residentID).Return(true, nil)
	workerRepo.On("Exists", mock.Anything, workerID).Return(true, nil)
	obsRepo.On("ListByResident", mock.Anything, residentID).Return([]*domain.ShiftObservation{}, nil)
	predictions.On("FallRiskProbability", mock.Anything, residentID).Return(0.0)
	obsRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	published := make(chan struct{})
	publisher.On("PublishAttentionAlert", mock.Anything, residentID, mock.Anything).
		Run(func(args mock.Arguments) { close(published) }).
		Return(nil)

	req := services.CreateObservationRequest{
		ResidentID: residentID,
		WorkerID:   workerID,
		OxygenSat:  intPtr(85),
	}

	obs, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, obs.HypoxiaFlag)

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("attention alert was not published")
	}
}

func TestCreateObservation_UnknownResident(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	residentRepo := new(MockResidentRepository)
	svc := newObservationService(obsRepo, residentRepo, new(MockWorkerRepository), new(MockPredictionService), new(MockAlertPublisher))

	residentID := uuid.New()
	residentRepo.On("Exists", mock.Anything, residentID).Return(false, nil)

	_, err := svc.Create(context.Background(), services.CreateObservationRequest{
		ResidentID: residentID,
		WorkerID:   uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrResidentNotFound)
}

func TestCreateObservation_UnknownWorker(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	residentRepo := new(MockResidentRepository)
	workerRepo := new(MockWorkerRepository)
	svc := newObservationService(obsRepo, residentRepo, workerRepo, new(MockPredictionService), new(MockAlertPublisher))

	residentID := uuid.New()
	workerID := uuid.New()
	residentRepo.On("Exists", mock.Anything, residentID).Return(true, nil)
	workerRepo.On("Exists", mock.Anything, workerID).Return(false, nil)

	_, err := svc.Create(context.Background(), services.CreateObservationRequest{
		ResidentID: residentID,
		WorkerID:   workerID,
	})
	assert.ErrorIs(t, err, domain.ErrWorkerNotFound)
}

func TestCreateObservation_RejectsInvalidEnums(t *testing.T) {
	svc := newObservationService(new(MockObservationRepository), new(MockResidentRepository), new(MockWorkerRepository), new(MockPredictionService), new(MockAlertPublisher))

	tests := []struct {
		name string
		req  services.CreateObservationRequest
	}{
		{"fall event type", services.CreateObservationRequest{FallsEventType: strPtr("Levitated")}},
		{"mood baseline", services.CreateObservationRequest{MoodBaseline: strPtr("Ecstatic")}},
		{"medication action", services.CreateObservationRequest{MedicationAction: strPtr("Hidden")}},
		{"mood severity too high", services.CreateObservationRequest{MoodSeverity: intPtr(4)}},
		{"mood severity too low", services.CreateObservationRequest{MoodSeverity: intPtr(0)}},
		{"pain score out of range", services.CreateObservationRequest{PainScore: intPtr(11)}},
		{"mmse out of range", services.CreateObservationRequest{MMSEScore: intPtr(31)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestCreateObservation_MobilityLevelStringAccepted(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	residentRepo := new(MockResidentRepository)
	workerRepo := new(MockWorkerRepository)
	predictions := new(MockPredictionService)
	svc := newObservationService(obsRepo, residentRepo, workerRepo, predictions, new(MockAlertPublisher))

	residentID := uuid.New()
	workerID := uuid.New()
	residentRepo.On("Exists", mock.Anything, residentID).Return(true, nil)
	workerRepo.On("Exists", mock.Anything, workerID).Return(true, nil)
	obsRepo.On("ListByResident", mock.Anything, residentID).Return([]*domain.ShiftObservation{}, nil)
	predictions.On("FallRiskProbability", mock.Anything, residentID).Return(0.0)
	obsRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	obs, err := svc.Create(context.Background(), services.CreateObservationRequest{
		ResidentID:    residentID,
		WorkerID:      workerID,
		MobilityLevel: strPtr("Partial assistance"),
	})
	require.NoError(t, err)
	require.NotNil(t, obs.MobilityLevel)
	assert.Equal(t, domain.MobilityPartial, *obs.MobilityLevel)
}

func TestUpdateObservation_RederivesFlagsKeepsRollingStats(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	svc := newObservationService(obsRepo, new(MockResidentRepository), new(MockWorkerRepository), new(MockPredictionService), new(MockAlertPublisher))

	obsID := uuid.New()
	stampedMean := 74.0
	existing := &domain.ShiftObservation{
		ID:            obsID,
		ResidentID:    uuid.New(),
		WorkerID:      uuid.New(),
		Timestamp:     testNow.Add(-24 * time.Hour),
		AgitationFlag: true,
		HR7dMean:      &stampedMean,
	}

	obsRepo.On("GetByID", mock.Anything, obsID).Return(existing, nil)
	obsRepo.On("Update", mock.Anything, existing).Return(nil)

	updated, err := svc.Update(context.Background(), obsID, services.CreateObservationRequest{
		MoodBaseline: strPtr("Withdrawn/quiet"),
		Temperature:  floatPtr(38.2),
	})
	require.NoError(t, err)

	assert.True(t, updated.WithdrawnFlag)
	assert.False(t, updated.AgitationFlag)
	assert.True(t, updated.FeverFlag)

	// Rolling statistics keep their original anchor
	require.NotNil(t, updated.HR7dMean)
	assert.Equal(t, 74.0, *updated.HR7dMean)
}

func TestUpdateObservation_NotFound(t *testing.T) {
	obsRepo := new(MockObservationRepository)
	svc := newObservationService(obsRepo, new(MockResidentRepository), new(MockWorkerRepository), new(MockPredictionService), new(MockAlertPublisher))

	obsID := uuid.New()
	obsRepo.On("GetByID", mock.Anything, obsID).Return(nil, domain.ErrObservationNotFound)

	_, err := svc.Update(context.Background(), obsID, services.CreateObservationRequest{})
	assert.ErrorIs(t, err, domain.ErrObservationNotFound)
}

func TestListByResident_UnknownResident(t *testing.T) {
	residentRepo := new(MockResidentRepository)
	svc := newObservationService(new(MockObservationRepository), residentRepo, new(MockWorkerRepository), new(MockPredictionService), new(MockAlertPublisher))

	residentID := uuid.New()
	residentRepo.On("Exists", mock.Anything, residentID).Return(false, nil)

	_, err := svc.ListByResident(context.Background(), residentID)
	assert.ErrorIs(t, err, domain.ErrResidentNotFound)
}
