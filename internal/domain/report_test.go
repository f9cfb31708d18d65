package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() Dataset {
	return Dataset{
		Rivers: []River{
			{ID: "R1", Name: "Rio Itajai"},
			{ID: "R2", Name: "Rio Una"},
		},
		Municipalities: []Municipality{
			{RiverID: "R1", ID: "M1", Name: "Blumenau", Threshold: "300", Source: "Defesa Civil"},
			{RiverID: "R1", ID: "M2", Name: "Gaspar", Threshold: "250,5"},
			{RiverID: "R2", ID: "M1", Name: "Palmares", Threshold: "600", Source: "ANA"},
		},
		Readings: []Reading{
			{RiverID: "R1", MunicipalityID: "M1", Date: "2024-01-01", Time: "08:00", Level: fp(120)},
			{RiverID: "R1", MunicipalityID: "M1", Date: "2024-01-02", Time: "08:00", Level: fp(350.5)},
			{RiverID: "R1", MunicipalityID: "M2", Date: "2024-01-02", Time: "10:30", Level: fp(100)},
			{RiverID: "R2", MunicipalityID: "M1", Date: "2024-01-03", Time: "06:00", Level: fp(590)},
			{RiverID: "R2", MunicipalityID: "M1", Date: "2024-01-02", Time: "23:59", Level: fp(200)},
		},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(testDataset())

	require.Len(t, report.Rows, 3)
	assert.Empty(t, report.Orphans)

	t.Run("latest and previous selected by date then time", func(t *testing.T) {
		row := report.Rows[0]
		assert.Equal(t, "Rio Itajai", row.River)
		assert.Equal(t, "Blumenau", row.Municipality)
		require.NotNil(t, row.Latest)
		assert.Equal(t, 350.5, *row.Latest)
		require.NotNil(t, row.Previous)
		assert.Equal(t, 120.0, *row.Previous)
		assert.Equal(t, "2024-01-02", row.Date)
		assert.Equal(t, "08:00", row.Time)
		assert.Equal(t, "Defesa Civil", row.Source)
	})

	t.Run("cell colors classified independently", func(t *testing.T) {
		row := report.Rows[0]
		// 350.5/300 = 116.8% → red; 120/300 = 40% → green.
		assert.Equal(t, ColorRed, row.Color)
		assert.Equal(t, ColorGreen, row.PreviousColor)
	})

	t.Run("single reading has gray previous cell", func(t *testing.T) {
		row := report.Rows[1]
		assert.Equal(t, "Gaspar", row.Municipality)
		assert.Nil(t, row.Previous)
		assert.Equal(t, ColorGray, row.PreviousColor)
		require.NotNil(t, row.Threshold)
		assert.Equal(t, 250.5, *row.Threshold)
	})

	t.Run("municipality ids only collide across rivers", func(t *testing.T) {
		// Both R1 and R2 have a municipality "M1"; readings must not leak
		// between them.
		row := report.Rows[2]
		assert.Equal(t, "Palmares", row.Municipality)
		require.NotNil(t, row.Latest)
		assert.Equal(t, 590.0, *row.Latest)
		require.NotNil(t, row.Previous)
		assert.Equal(t, 200.0, *row.Previous)
	})
}

func TestBuildReportSkipsPairsWithoutReadings(t *testing.T) {
	ds := testDataset()
	ds.Municipalities = append(ds.Municipalities, Municipality{
		RiverID: "R2", ID: "M9", Name: "Catende", Threshold: "400",
	})

	report := BuildReport(ds)

	assert.Len(t, report.Rows, 3)
	for _, row := range report.Rows {
		assert.NotEqual(t, "Catende", row.Municipality)
	}
}

func TestBuildReportSurfacesOrphanMunicipalities(t *testing.T) {
	ds := testDataset()
	ds.Municipalities = append(ds.Municipalities, Municipality{
		RiverID: "R404", ID: "M1", Name: "Aguas Claras",
	})

	report := BuildReport(ds)

	assert.Len(t, report.Rows, 3)
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, "Aguas Claras", report.Orphans[0].Name)
}

func TestBuildReportTiedTimestampsKeepSourceOrder(t *testing.T) {
	ds := Dataset{
		Rivers:         []River{{ID: "R1", Name: "Rio Itajai"}},
		Municipalities: []Municipality{{RiverID: "R1", ID: "M1", Name: "Blumenau", Threshold: "1000"}},
		Readings: []Reading{
			{RiverID: "R1", MunicipalityID: "M1", Date: "2024-01-01", Time: "08:00", Level: fp(100)},
			{RiverID: "R1", MunicipalityID: "M1", Date: "2024-01-01", Time: "08:00", Level: fp(200)},
		},
	}

	report := BuildReport(ds)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	// Stable sort: the reading listed second in the source is "latest".
	require.NotNil(t, row.Latest)
	assert.Equal(t, 200.0, *row.Latest)
	require.NotNil(t, row.Previous)
	assert.Equal(t, 100.0, *row.Previous)
}

func TestBuildReportInvalidLatestLevel(t *testing.T) {
	ds := Dataset{
		Rivers:         []River{{ID: "R1", Name: "Rio Itajai"}},
		Municipalities: []Municipality{{RiverID: "R1", ID: "M1", Name: "Blumenau", Threshold: "300"}},
		Readings: []Reading{
			{RiverID: "R1", MunicipalityID: "M1", Date: "2024-01-01", Time: "08:00", Level: nil},
		},
	}

	report := BuildReport(ds)

	require.Len(t, report.Rows, 1)
	assert.Nil(t, report.Rows[0].Latest)
	assert.Equal(t, ColorGray, report.Rows[0].Color)
}

func TestBuildReportGenerationTimestamp(t *testing.T) {
	frozen := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	report := BuildReport(testDataset())

	assert.Equal(t, frozen, report.GeneratedAt)
}

func TestSortReadingsDoesNotMutateUnrelatedOrder(t *testing.T) {
	readings := []Reading{
		{Date: "2024-01-02", Time: "08:00"},
		{Date: "2024-01-01", Time: "09:00"},
		{Date: "2024-01-01", Time: "08:00"},
	}
	SortReadings(readings)

	assert.Equal(t, "2024-01-01", readings[0].Date)
	assert.Equal(t, "08:00", readings[0].Time)
	assert.Equal(t, "09:00", readings[1].Time)
	assert.Equal(t, "2024-01-02", readings[2].Date)
}
