package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByTimeSlot(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{Position: 1, Title: "T1", Start: monday.Add(10 * time.Hour)},
		{Position: 2, Title: "T2", Start: monday.Add(10 * time.Hour)},
		{Position: 3, Title: "T3", Start: monday.Add(11 * time.Hour)},
	}

	f := SlotFormat{DateLayout: "Mon", TimeLayout: "15:04"}
	groups := GroupByTimeSlot(rows, f)

	require.Len(t, groups, 2)
	assert.Equal(t, TimeSlot{Date: "Mon", Time: "10:00"}, groups[0].Slot)
	assert.Equal(t, []string{"T1", "T2"}, groups[0].Titles())
	assert.Equal(t, TimeSlot{Date: "Mon", Time: "11:00"}, groups[1].Slot)
	assert.Equal(t, []string{"T3"}, groups[1].Titles())
}

func TestGroupByTimeSlot_FirstSeenOrder(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{Title: "Late", Start: day.Add(15 * time.Hour)},
		{Title: "Early", Start: day.Add(9 * time.Hour)},
		{Title: "Late again", Start: day.Add(15 * time.Hour)},
	}

	groups := GroupByTimeSlot(rows, DefaultSlotFormat)

	require.Len(t, groups, 2)
	assert.Equal(t, "15:00", groups[0].Slot.Time)
	assert.Equal(t, []string{"Late", "Late again"}, groups[0].Titles())
	assert.Equal(t, "09:00", groups[1].Slot.Time)

	// Stable across runs.
	assert.Equal(t, groups, GroupByTimeSlot(rows, DefaultSlotFormat))
}

func TestGroupByTimeSlot_DefaultFormatSplitsYears(t *testing.T) {
	// March 4 is a Monday in both 2024 and 2030.
	rows := []Row{
		{Title: "T1", Start: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)},
		{Title: "T2", Start: time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)},
	}

	groups := GroupByTimeSlot(rows, DefaultSlotFormat)

	require.Len(t, groups, 2)
	assert.Equal(t, TimeSlot{Date: "Mon Mar 4 2024", Time: "10:00"}, groups[0].Slot)
	assert.Equal(t, TimeSlot{Date: "Mon Mar 4 2030", Time: "10:00"}, groups[1].Slot)
}

func TestGroupByTimeSlot_Location(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	rows := []Row{{Title: "T1", Start: time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC)}}

	groups := GroupByTimeSlot(rows, SlotFormat{DateLayout: "Mon", TimeLayout: "15:04", Location: berlin})

	require.Len(t, groups, 1)
	assert.Equal(t, TimeSlot{Date: "Tue", Time: "00:30"}, groups[0].Slot)
}

func TestGroupByDate(t *testing.T) {
	mon := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)
	rows := []Row{
		{Title: "A", Start: mon.Add(9 * time.Hour)},
		{Title: "B", Start: tue.Add(9 * time.Hour)},
		{Title: "C", Start: mon.Add(11 * time.Hour)},
	}

	sections := GroupByDate(GroupByTimeSlot(rows, SlotFormat{DateLayout: "Mon", TimeLayout: "15:04"}))

	require.Len(t, sections, 2)
	assert.Equal(t, "Mon", sections[0].Date)
	require.Len(t, sections[0].Groups, 2)
	assert.Equal(t, "09:00", sections[0].Groups[0].Slot.Time)
	assert.Equal(t, "11:00", sections[0].Groups[1].Slot.Time)
	assert.Equal(t, "Tue", sections[1].Date)
}

func TestTimeSlot_String(t *testing.T) {
	assert.Equal(t, "Mon Mar 4 10:00", TimeSlot{Date: "Mon Mar 4", Time: "10:00"}.String())
}

func TestReconcileTable_SingleWriter(t *testing.T) {
	adapter := newFakeAdapter()
	spec := &Spec{Table: "guard-test", Adapter: adapter}

	release := make(chan struct{})
	var loads int32
	load := func(ctx context.Context) ([]Row, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return testRows(), nil
	}

	var wg sync.WaitGroup
	plans := make([]*Plan, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		plans[0], _, errs[0] = ReconcileTable(context.Background(), spec, load, Options{})
	}()

	require.Eventually(t, func() bool { return inFlight("guard-test") }, time.Second, time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		plans[1], _, errs[1] = ReconcileTable(context.Background(), spec, load, Options{})
	}()

	// Give the second caller time to join before the first pass finishes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	assert.Len(t, adapter.creates, 3)
	assert.Same(t, plans[0], plans[1])
	assert.False(t, inFlight("guard-test"))
}

func TestReconcileTable_LoadError(t *testing.T) {
	spec := &Spec{Table: "load-error", Adapter: newFakeAdapter()}
	_, _, err := ReconcileTable(context.Background(), spec, func(ctx context.Context) ([]Row, error) {
		return nil, assert.AnError
	}, Options{})

	assert.ErrorIs(t, err, assert.AnError)
}
