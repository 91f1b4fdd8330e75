package teststubs

import (
	"context"
	"errors"
	"testing"

	domaingames "lazystream/internal/domain/games"
)

func TestStubProviderTracksCalls(t *testing.T) {
	err := errors.New("boom")
	p := &StubProvider{Games: []domaingames.Game{{ID: 1}}, ScheduleErr: err, Notify: make(chan struct{})}
	if _, got := p.FetchSchedule(context.Background(), "2024-01-01"); !errors.Is(got, err) {
		t.Fatalf("expected error passthrough, got %v", got)
	}
	_, _ = p.FetchSchedule(context.Background(), "2024-01-02")
	if p.ScheduleCalls.Load() != 2 {
		t.Fatalf("expected call count 2, got %d", p.ScheduleCalls.Load())
	}
	select {
	case <-p.Notify:
	default:
		t.Fatalf("expected notify channel to be closed")
	}
	if dates := p.Dates(); len(dates) != 2 || dates[1] != "2024-01-02" {
		t.Fatalf("unexpected dates %v", dates)
	}
}

func TestStubProviderContent(t *testing.T) {
	p := &StubProvider{Content: map[int]domaingames.Content{
		7: {EPG: []domaingames.EPGEntry{{Title: "NHLTV"}}},
	}}

	content, err := p.FetchGameContent(context.Background(), 7)
	if err != nil || len(content.EPG) != 1 {
		t.Fatalf("expected content for game 7, got %+v err %v", content, err)
	}
	if _, err := p.FetchGameContent(context.Background(), 8); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.FetchGameContent(ctx, 7); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if p.ContentCalls.Load() != 3 {
		t.Fatalf("expected 3 content calls, got %d", p.ContentCalls.Load())
	}
	if p.Sport() != "nhl" || p.Name() != "stub" {
		t.Fatalf("unexpected identity %s/%s", p.Sport(), p.Name())
	}
}
