package daemon_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ewms/internal/api"
	"ewms/internal/daemon"
	"ewms/internal/eventsync"
	"ewms/internal/logging"
	"ewms/internal/testsupport"
)

func startDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*daemon.Daemon, *api.Client) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	return d, api.NewClient(d.APIAddr())
}

func TestDaemonServesFullBedFlow(t *testing.T) {
	_, client := startDaemon(t, testsupport.WithTotalBeds(4))
	ctx := context.Background()

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Running || status.TotalBeds != 4 || status.Occupied != 0 {
		t.Fatalf("initial status = %+v", status)
	}
	if status.SyncStatus != "disabled" {
		t.Fatalf("sync status = %q, want disabled", status.SyncStatus)
	}

	admitted, err := client.Admit(ctx, 2, api.AdmitRequest{Name: "A", MRN: "001", Diagnosis: "flu"})
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if admitted.Bed.Status != "occupied" || admitted.Bed.Patient == nil {
		t.Fatalf("admit response bed = %+v", admitted.Bed)
	}
	if admitted.Bed.Stay == nil || admitted.Bed.Stay.Severity != "normal" {
		t.Fatalf("fresh admission stay = %+v", admitted.Bed.Stay)
	}
	if admitted.Warning != "" {
		t.Fatalf("unexpected warning: %q", admitted.Warning)
	}

	empty, err := client.EmptyBeds(ctx)
	if err != nil {
		t.Fatalf("empty beds: %v", err)
	}
	if len(empty) != 3 {
		t.Fatalf("empty beds = %v, want three", empty)
	}

	moved, err := client.Transfer(ctx, 2, 4)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if moved.Bed.ID != 4 || moved.Bed.Patient == nil || moved.Bed.Patient.Name != "A" {
		t.Fatalf("transfer response bed = %+v", moved.Bed)
	}

	beds, err := client.Beds(ctx)
	if err != nil {
		t.Fatalf("beds: %v", err)
	}
	if beds[1].Status != "empty" || beds[3].Status != "occupied" {
		t.Fatalf("collection after transfer = %+v", beds)
	}

	discharged, err := client.Discharge(ctx, 4)
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if discharged.Patient.Name != "A" {
		t.Fatalf("discharged patient = %+v", discharged.Patient)
	}
	if !strings.HasPrefix(discharged.Duration, "00:00:00:") {
		t.Fatalf("discharge duration = %q, want a fresh stay clock", discharged.Duration)
	}

	status, err = client.Status(ctx)
	if err != nil {
		t.Fatalf("final status: %v", err)
	}
	if status.Occupied != 0 || status.Empty != 4 {
		t.Fatalf("final status = %+v", status)
	}
}

func TestAPIStatusCodeMapping(t *testing.T) {
	d, client := startDaemon(t, testsupport.WithTotalBeds(2))
	ctx := context.Background()
	base := "http://" + d.APIAddr()

	if _, err := client.Admit(ctx, 1, api.AdmitRequest{Name: "A", MRN: "001", Diagnosis: "flu"}); err != nil {
		t.Fatalf("seed admit: %v", err)
	}

	post := func(t *testing.T, path, body string) int {
		t.Helper()
		resp, err := http.Post(base+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown bed", "/api/beds/9/discharge", "{}", http.StatusNotFound},
		{"malformed bed id", "/api/beds/zero/discharge", "{}", http.StatusBadRequest},
		{"blank admission", "/api/beds/2/admit", `{"name":"","mrn":"","diagnosis":""}`, http.StatusBadRequest},
		{"admit occupied bed", "/api/beds/1/admit", `{"name":"B","mrn":"002","diagnosis":"flu"}`, http.StatusConflict},
		{"discharge empty bed", "/api/beds/2/discharge", "{}", http.StatusConflict},
		{"transfer onto occupied bed", "/api/beds/1/transfer", `{"to":1}`, http.StatusConflict},
		{"invalid body", "/api/beds/2/admit", "not json", http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := post(t, tc.path, tc.body); got != tc.want {
				t.Fatalf("POST %s = %d, want %d", tc.path, got, tc.want)
			}
		})
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build first daemon: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start first daemon: %v", err)
	}

	second, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build second daemon: %v", err)
	}
	defer second.Close()

	err = second.Start(context.Background())
	if err == nil {
		second.Stop()
		t.Fatal("second instance acquired the lock")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStateSurvivesRestart(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTotalBeds(3))
	ctx := context.Background()

	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build first daemon: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start first daemon: %v", err)
	}
	client := api.NewClient(first.APIAddr())
	if _, err := client.Admit(ctx, 3, api.AdmitRequest{Name: "C", MRN: "003", Diagnosis: "asthma"}); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close first daemon: %v", err)
	}

	second, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("rebuild daemon: %v", err)
	}
	defer second.Close()

	beds := second.Store().Beds()
	if beds[2].Patient == nil || beds[2].Patient.Name != "C" {
		t.Fatalf("bed 3 after restart = %+v", beds[2])
	}
	if beds[0].Patient != nil || beds[1].Patient != nil {
		t.Fatal("restart invented occupants")
	}
}

func TestSyncForwardsTransitionsInOrder(t *testing.T) {
	var (
		mu       sync.Mutex
		received []eventsync.Event
	)
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev eventsync.Event
		if err := json.Unmarshal(body, &ev); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, ev)
		mu.Unlock()
	}))
	defer endpoint.Close()

	_, client := startDaemon(t,
		testsupport.WithTotalBeds(3),
		testsupport.WithSyncEndpoint(endpoint.URL),
	)
	ctx := context.Background()

	if _, err := client.Admit(ctx, 1, api.AdmitRequest{Name: "A", MRN: "001", Diagnosis: "flu"}); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if _, err := client.Transfer(ctx, 1, 3); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if _, err := client.Discharge(ctx, 3); err != nil {
		t.Fatalf("discharge: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only %d of 3 events arrived", n)
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	wantActions := []eventsync.Action{eventsync.ActionAdmit, eventsync.ActionTransfer, eventsync.ActionDischarge}
	for i, want := range wantActions {
		if received[i].Action != want {
			t.Fatalf("event %d action = %s, want %s", i, received[i].Action, want)
		}
	}
	if received[1].BedID != 1 || !strings.Contains(received[1].Diagnosis, "To Bed 3") {
		t.Fatalf("transfer event = %+v, want source bed with destination note", received[1])
	}
	if received[2].Duration == "" {
		t.Fatalf("discharge event missing duration: %+v", received[2])
	}
}

func TestMismatchedBedCountIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTotalBeds(3))

	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build daemon: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close daemon: %v", err)
	}

	cfg.Ward.TotalBeds = 5
	if _, err := daemon.New(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected resize to be rejected")
	} else if !strings.Contains(err.Error(), "resizing is unsupported") {
		t.Fatalf("unexpected error: %v", err)
	}
}
