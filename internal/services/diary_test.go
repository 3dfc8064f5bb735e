package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDay(date string) models.DayLog {
	d := models.NewDayLog(date)
	d.WaterLogs = append(d.WaterLogs, models.WaterLog{ID: "w1", Amount: 300, Time: "08:15"})
	d.Meals = append(d.Meals, models.Meal{
		ID:   "m1",
		Type: models.MealBreakfast,
		Time: "08:30",
		Items: []models.FoodItem{{
			ID: "i1", FoodID: "taco-f6-01", Name: "Banana prata madura", Source: models.SourceTACO,
			QuantityText: "2 unidade média", SelectedQuantity: 2, SelectedUnit: "unidade média",
			EstimatedGrams: 140, Calories: 137, ProteinG: 1.8, CarbsG: 36.4, FatG: 0.1, FiberG: 2.8, SodiumMg: 1.4,
			Confidence: 1,
		}},
		Totals:     models.Totals{Calories: 137, ProteinG: 1.8, CarbsG: 36.4, FatG: 0.1, FiberG: 2.8},
		Disclaimer: "ok",
	})
	d.Notes = "treino leve"
	return d
}

func TestProfile_AbsentThenSavedOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.diary.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	first := models.NewOnboardingProfile("Ana")
	require.NoError(t, f.diary.SaveProfile(ctx, "u1", first))

	second := first.Clone()
	second.WaterGoal = 3000
	second.Notifications = nil
	require.NoError(t, f.diary.SaveProfile(ctx, "u1", second))

	got, err := f.diary.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second, *got)
}

func TestSaveDayLog_ThenGetDayLog_RoundTrips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	want := sampleDay("2026-10-16")
	require.NoError(t, f.diary.SaveDayLog(ctx, "u1", want))

	got, err := f.diary.GetDayLog(ctx, "u1", "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetDayLog_MissingDateIsEmptyAndNotPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.diary.SaveDayLog(ctx, "u1", sampleDay("2026-10-15")))

	got, err := f.diary.GetDayLog(ctx, "u1", "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, models.DayLog{Date: "2026-10-16", WaterLogs: []models.WaterLog{}, Meals: []models.Meal{}, Notes: ""}, got)

	all, err := f.diary.GetAllLogs(ctx, "u1")
	require.NoError(t, err)
	assert.NotContains(t, all, "2026-10-16")
	assert.Contains(t, all, "2026-10-15")
}

func TestSaveDayLog_KeepsOtherDatesAndAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.diary.SaveDayLog(ctx, "u1", sampleDay("2026-10-15")))
	require.NoError(t, f.diary.SaveDayLog(ctx, "u1", sampleDay("2026-10-16")))
	require.NoError(t, f.diary.SaveDayLog(ctx, "u2", models.NewDayLog("2026-10-16")))

	u1, err := f.diary.GetAllLogs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, u1, 2)

	u2, err := f.diary.GetAllLogs(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, u2, 1)
	assert.Empty(t, u2["2026-10-16"].WaterLogs)

	none, err := f.diary.GetAllLogs(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveDayLog_RejectsBadDate(t *testing.T) {
	f := newFixture(t)
	err := f.diary.SaveDayLog(context.Background(), "u1", models.NewDayLog("16/10/2026"))
	assert.Error(t, err)
}

func TestUpdateDayLog_FnErrorWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := f.diary.UpdateDayLog(ctx, "u1", "2026-10-16", func(d *models.DayLog) error {
		d.Notes = "never saved"
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, getRaw(t, f.db, logsKey("u1")))
}

const badDay = `{"date":"2026-10-02","waterLogs":[],"meals":[{"id":"m","type":"","time":"12:00","items":[]}]}`

func TestUpdateDayLog_KeepsDaysThatFailToDecode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	putRaw(t, f.db, logsKey("u1"), `{"2026-10-02":`+badDay+`,"2026-10-03":{"date":"2026-10-03","waterLogs":[],"meals":[],"notes":"keep me"}}`)

	all, err := f.diary.GetAllLogs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1, "the undecodable day is skipped on read")

	_, err = f.journal.AddWater(ctx, "u1", "2026-10-16", 200, "09:00")
	require.NoError(t, err)

	all, err = f.diary.GetAllLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "keep me", all["2026-10-03"].Notes)
	assert.Equal(t, 200.0, all["2026-10-16"].WaterTotal())

	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(getRaw(t, f.db, logsKey("u1")), &stored))
	assert.JSONEq(t, badDay, string(stored["2026-10-02"]))
}

func TestUpdateDayLog_ReplacingBrokenDaySetsItAside(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	putRaw(t, f.db, logsKey("u1"), `{"2026-10-02":`+badDay+`}`)

	_, err := f.journal.AddWater(ctx, "u1", "2026-10-02", 250, "09:00")
	require.NoError(t, err)

	day, err := f.diary.GetDayLog(ctx, "u1", "2026-10-02")
	require.NoError(t, err)
	assert.Equal(t, 250.0, day.WaterTotal())
	assert.JSONEq(t, badDay, string(getRaw(t, f.db, logsKey("u1")+".2026-10-02_corrupt")))
}

func TestDiary_MalformedRecordsAreSetAsideBeforeWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	putRaw(t, f.db, profileKey("u1"), `{"name":`)
	putRaw(t, f.db, logsKey("u1"), `[1,2,3]`)

	p, err := f.diary.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	d, err := f.diary.GetDayLog(ctx, "u1", "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, models.NewDayLog("2026-10-16"), d)

	require.NoError(t, f.diary.SaveDayLog(ctx, "u1", sampleDay("2026-10-16")))
	all, err := f.diary.GetAllLogs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, `[1,2,3]`, string(getRaw(t, f.db, logsKey("u1")+"_corrupt")))

	require.NoError(t, f.diary.SaveProfile(ctx, "u1", models.NewOnboardingProfile("Ana")))
	assert.Equal(t, `{"name":`, string(getRaw(t, f.db, profileKey("u1")+"_corrupt")))

	// a second bad record does not overwrite the first copy
	putRaw(t, f.db, logsKey("u1"), `"oops"`)
	require.NoError(t, f.diary.SaveDayLog(ctx, "u1", sampleDay("2026-10-16")))
	assert.Equal(t, `[1,2,3]`, string(getRaw(t, f.db, logsKey("u1")+"_corrupt")))
	assert.Equal(t, `"oops"`, string(getRaw(t, f.db, logsKey("u1")+"_corrupt_2")))
}

func TestUpdateDayLog_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := fmt.Sprintf("2026-10-%02d", 1+i%5)
			_, err := f.diary.UpdateDayLog(ctx, "u1", date, func(d *models.DayLog) error {
				d.WaterLogs = append(d.WaterLogs, models.WaterLog{ID: fmt.Sprint(i), Amount: 100})
				return nil
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := f.diary.GetAllLogs(ctx, "u1")
	require.NoError(t, err)
	total := 0
	for _, d := range all {
		total += len(d.WaterLogs)
	}
	assert.Equal(t, writers, total)
}
