package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stargen/stargen-backend-go/internal/models"
	"github.com/stargen/stargen-backend-go/internal/store"
)

func testService(t *testing.T) *AnalysisService {
	t.Helper()

	samples := []models.Sample{
		{ID: "A", Lat: 0, Lon: 0, AgeBP: 0},
		{ID: "B", Lat: 0, Lon: 10, AgeBP: 0},
		{ID: "C", Lat: 10, Lon: 0, AgeBP: 0},
		{ID: "D", Lat: 10, Lon: 10, AgeBP: 0},
	}

	n := len(samples)
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				data[i*n+j] = 1
			}
		}
	}
	matrix, err := store.NewDistanceMatrix(n, data)
	require.NoError(t, err)

	s, err := store.NewSampleStore(samples, matrix)
	require.NoError(t, err)
	return NewAnalysisService(s, nil)
}

func serviceParams() models.AnalysisParams {
	return models.AnalysisParams{
		BinCount:          1,
		BinMode:           models.BinModeEqualWidth,
		Resolution:        3,
		LowessBandwidth:   0.5,
		BarrierThreshold:  1.5,
		CorridorThreshold: 0.5,
	}
}

// waitForJob polls until the given job leaves the running state.
func waitForJob(t *testing.T, svc *AnalysisService, jobID string) models.JobStatus {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status := svc.Status()
		if status.JobID == jobID && status.State != models.JobStateRunning {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return models.JobStatus{}
}

func TestRecomputeCompletes(t *testing.T) {
	svc := testService(t)

	jobID, err := svc.Recompute(serviceParams())
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	status := waitForJob(t, svc, jobID)
	assert.Equal(t, models.JobStateCompleted, status.State)
	require.NotNil(t, status.FinishedAt)

	result, ok := svc.Result()
	require.True(t, ok)
	assert.Equal(t, jobID, result.JobID)
	require.Len(t, result.Bins, 1)
	assert.Len(t, result.Bins[0].Cells, 4)
}

func TestRecomputeSequentialRuns(t *testing.T) {
	svc := testService(t)

	first, err := svc.Recompute(serviceParams())
	require.NoError(t, err)
	waitForJob(t, svc, first)

	// A completed job must not obstruct later ones.
	second, err := svc.Recompute(serviceParams())
	require.NoError(t, err)
	status := waitForJob(t, svc, second)

	assert.Equal(t, models.JobStateCompleted, status.State)
	result, ok := svc.Result()
	require.True(t, ok)
	assert.Equal(t, second, result.JobID)
}

func TestRecomputeSupersession(t *testing.T) {
	svc := testService(t)

	first, err := svc.Recompute(serviceParams())
	require.NoError(t, err)
	second, err := svc.Recompute(serviceParams())
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	status := waitForJob(t, svc, second)
	assert.Equal(t, models.JobStateCompleted, status.State)

	// Whatever happened to the first job, the published result is the
	// latest request's.
	result, ok := svc.Result()
	require.True(t, ok)
	assert.Equal(t, second, result.JobID)
}

func TestRecomputeRejectsInvalidParams(t *testing.T) {
	svc := testService(t)

	params := serviceParams()
	params.BinCount = 0
	_, err := svc.Recompute(params)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)

	status := svc.Status()
	assert.Empty(t, status.JobID, "rejected requests leave no job behind")
}

func TestBinResultOutOfRange(t *testing.T) {
	svc := testService(t)

	_, err := svc.BinResult(0)
	assert.Error(t, err, "no completed analysis yet")

	jobID, err := svc.Recompute(serviceParams())
	require.NoError(t, err)
	waitForJob(t, svc, jobID)

	_, err = svc.BinResult(-1)
	assert.Error(t, err)
	_, err = svc.BinResult(5)
	assert.Error(t, err)

	bin, err := svc.BinResult(0)
	require.NoError(t, err)
	assert.Len(t, bin.Cells, 4)
}
