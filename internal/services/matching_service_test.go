package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

type stubUserStore struct {
	profile      *models.User
	profileErr   error
	peers        []models.User
	peersErr     error
	findInput    repository.FindMatchesInput
	resetCalls   []string
	resetErr     error
	profileInput repository.MatchingProfileInput
}

func (s *stubUserStore) UpdateMatchingProfile(_ context.Context, userID string, input repository.MatchingProfileInput) (*models.User, error) {
	s.profileInput = input
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.profile, nil
}

func (s *stubUserStore) FindAvailableMatches(_ context.Context, input repository.FindMatchesInput) ([]models.User, error) {
	s.findInput = input
	if s.peersErr != nil {
		return nil, s.peersErr
	}
	return s.peers, nil
}

func (s *stubUserStore) ResetToAvailable(_ context.Context, userID string) error {
	s.resetCalls = append(s.resetCalls, userID)
	return s.resetErr
}

type stubQueuePool struct {
	enqueued   []string
	enqueueErr error
	position   int
	removed    []string
}

func (s *stubQueuePool) Enqueue(_ context.Context, userID string) (*models.QueueEntry, error) {
	s.enqueued = append(s.enqueued, userID)
	if s.enqueueErr != nil {
		return nil, s.enqueueErr
	}
	return &models.QueueEntry{ID: "entry-1", UserID: userID, Status: models.QueueStatusActive}, nil
}

func (s *stubQueuePool) Position(_ context.Context, _ string) (int, error) {
	return s.position, nil
}

func (s *stubQueuePool) Remove(_ context.Context, userID string) error {
	s.removed = append(s.removed, userID)
	return nil
}

type stubAssembler struct {
	trio      *models.Trio
	err       error
	requester *models.User
	peers     []models.User
}

func (s *stubAssembler) FormTrio(_ context.Context, requester *models.User, peers []models.User) (*models.Trio, error) {
	s.requester = requester
	s.peers = peers
	if s.err != nil {
		return nil, s.err
	}
	return s.trio, nil
}

type stubPublisher struct {
	matchEvents []string
}

func (s *stubPublisher) PublishMatchFound(userID, trioID string) error {
	s.matchEvents = append(s.matchEvents, userID+":"+trioID)
	return nil
}

func buildUser(id, name string, age int, languages ...string) models.User {
	goal := "5-10kg"
	level := "beginner"
	return models.User{
		ID:           id,
		Name:         &name,
		Age:          &age,
		Languages:    languages,
		WeightGoal:   &goal,
		FitnessLevel: &level,
	}
}

func buildRequest(age int) MatchingRequest {
	return MatchingRequest{
		Name:         "Alice",
		Age:          age,
		Languages:    []string{"en"},
		WeightGoal:   "5-10kg",
		FitnessLevel: "beginner",
	}
}

func TestProcessMatchingFormsTrioWithTwoPeers(t *testing.T) {
	requester := buildUser("u1", "Alice", 30, "en")
	users := &stubUserStore{
		profile: &requester,
		peers: []models.User{
			buildUser("u2", "Bob", 28, "en"),
			buildUser("u3", "Carol", 33, "en"),
		},
	}
	queue := &stubQueuePool{}
	assembler := &stubAssembler{trio: &models.Trio{
		ID:                 "trio-1",
		User1ID:            "u1",
		User2ID:            "u2",
		User3ID:            "u3",
		WeightGoal:         "5-10kg",
		CompatibilityScore: 90,
	}}
	publisher := &stubPublisher{}
	service := NewMatchingService(users, queue, assembler, publisher)

	result, err := service.ProcessMatching(context.Background(), "u1", buildRequest(30))
	if err != nil {
		t.Fatalf("ProcessMatching: %v", err)
	}

	if result.State != MatchStateMatched {
		t.Fatalf("expected matched, got %s", result.State)
	}
	if result.TrioID != "trio-1" {
		t.Fatalf("expected trio-1, got %s", result.TrioID)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(result.Matches))
	}
	if result.Degraded {
		t.Fatal("trio formation must not be degraded")
	}
	if len(publisher.matchEvents) != 3 {
		t.Fatalf("expected 3 match events, got %d", len(publisher.matchEvents))
	}
	if len(queue.enqueued) != 0 {
		t.Fatalf("matched requester must not be enqueued, got %v", queue.enqueued)
	}
}

func TestProcessMatchingPartialWithOnePeer(t *testing.T) {
	requester := buildUser("u1", "Alice", 30, "en")
	users := &stubUserStore{
		profile: &requester,
		peers:   []models.User{buildUser("u2", "Bob", 35, "en")},
	}
	queue := &stubQueuePool{position: 3}
	service := NewMatchingService(users, queue, &stubAssembler{}, nil)

	result, err := service.ProcessMatching(context.Background(), "u1", buildRequest(30))
	if err != nil {
		t.Fatalf("ProcessMatching: %v", err)
	}

	if result.State != MatchStatePartial {
		t.Fatalf("expected partial, got %s", result.State)
	}
	if len(result.Matches) != 1 || result.Matches[0].ID != "u2" {
		t.Fatalf("unexpected matches: %+v", result.Matches)
	}
	if result.Matches[0].Compatibility != 90 {
		t.Fatalf("expected pair compatibility 90 for 5y spread, got %d", result.Matches[0].Compatibility)
	}
	if result.QueuePosition != 3 {
		t.Fatalf("expected position 3, got %d", result.QueuePosition)
	}
	if result.EstimatedWaitHours != 36 {
		t.Fatalf("expected 36h estimate for position 3, got %d", result.EstimatedWaitHours)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != "u1" {
		t.Fatalf("expected u1 enqueued once, got %v", queue.enqueued)
	}
	if len(users.resetCalls) != 1 || users.resetCalls[0] != "u1" {
		t.Fatalf("expected u1 reset to available, got %v", users.resetCalls)
	}
}

func TestProcessMatchingQueuedWhenNoPeers(t *testing.T) {
	requester := buildUser("u1", "Alice", 30, "en")
	users := &stubUserStore{profile: &requester}
	queue := &stubQueuePool{position: 1}
	service := NewMatchingService(users, queue, &stubAssembler{}, nil)

	result, err := service.ProcessMatching(context.Background(), "u1", buildRequest(30))
	if err != nil {
		t.Fatalf("ProcessMatching: %v", err)
	}

	if result.State != MatchStateQueued {
		t.Fatalf("expected queued, got %s", result.State)
	}
	if result.QueuePosition != 1 || result.EstimatedWaitHours != 24 {
		t.Fatalf("unexpected queue figures: pos=%d wait=%d", result.QueuePosition, result.EstimatedWaitHours)
	}
	if result.Degraded {
		t.Fatal("real queue placement must not be degraded")
	}
}

func TestProcessMatchingClaimRaceFallsBackToQueue(t *testing.T) {
	requester := buildUser("u1", "Alice", 30, "en")
	users := &stubUserStore{
		profile: &requester,
		peers: []models.User{
			buildUser("u2", "Bob", 28, "en"),
			buildUser("u3", "Carol", 33, "en"),
		},
	}
	queue := &stubQueuePool{position: 2}
	assembler := &stubAssembler{err: fmt.Errorf("claim u2: %w", ErrMemberClaimed)}
	service := NewMatchingService(users, queue, assembler, nil)

	result, err := service.ProcessMatching(context.Background(), "u1", buildRequest(30))
	if err != nil {
		t.Fatalf("ProcessMatching: %v", err)
	}

	if result.State != MatchStateQueued {
		t.Fatalf("expected queued after lost claim race, got %s", result.State)
	}
	if result.Degraded {
		t.Fatal("lost claim race is not a degraded outcome")
	}
	if len(queue.enqueued) != 1 {
		t.Fatalf("expected requester enqueued after lost race, got %v", queue.enqueued)
	}
}

func TestProcessMatchingDegradesOnStoreFailure(t *testing.T) {
	requester := buildUser("u1", "Alice", 30, "en")
	users := &stubUserStore{
		profile:  &requester,
		peersErr: errors.New("connection refused"),
	}
	service := NewMatchingService(users, &stubQueuePool{}, &stubAssembler{}, nil)

	result, err := service.ProcessMatching(context.Background(), "u1", buildRequest(30))
	if err != nil {
		t.Fatalf("ProcessMatching: %v", err)
	}

	if result.State != MatchStateQueued || !result.Degraded {
		t.Fatalf("expected degraded queued result, got %+v", result)
	}
	if result.QueuePosition != 1 || result.EstimatedWaitHours != 24 {
		t.Fatalf("unexpected fallback figures: %+v", result)
	}
}

func TestProcessMatchingUnknownUser(t *testing.T) {
	users := &stubUserStore{profileErr: pgx.ErrNoRows}
	service := NewMatchingService(users, &stubQueuePool{}, &stubAssembler{}, nil)

	_, err := service.ProcessMatching(context.Background(), "ghost", buildRequest(30))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProcessMatchingRejectsInvalidInput(t *testing.T) {
	service := NewMatchingService(&stubUserStore{}, &stubQueuePool{}, &stubAssembler{}, nil)

	_, err := service.ProcessMatching(context.Background(), "u1", MatchingRequest{Name: "Alice"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessMatchingAppliesAgeWindow(t *testing.T) {
	requester := buildUser("u1", "Alice", 40, "en")
	users := &stubUserStore{profile: &requester}
	service := NewMatchingService(users, &stubQueuePool{position: 1}, &stubAssembler{}, nil)

	if _, err := service.ProcessMatching(context.Background(), "u1", buildRequest(40)); err != nil {
		t.Fatalf("ProcessMatching: %v", err)
	}

	if users.findInput.AgeMin != 30 || users.findInput.AgeMax != 50 {
		t.Fatalf("expected age window [30, 50], got [%d, %d]", users.findInput.AgeMin, users.findInput.AgeMax)
	}
	if users.findInput.Limit != 2 {
		t.Fatalf("expected peer limit 2, got %d", users.findInput.Limit)
	}
}

func TestCancelMatchingRemovesAndResets(t *testing.T) {
	users := &stubUserStore{}
	queue := &stubQueuePool{}
	service := NewMatchingService(users, queue, &stubAssembler{}, nil)

	if err := service.CancelMatching(context.Background(), "u1"); err != nil {
		t.Fatalf("CancelMatching: %v", err)
	}

	if len(queue.removed) != 1 || queue.removed[0] != "u1" {
		t.Fatalf("expected queue removal for u1, got %v", queue.removed)
	}
	if len(users.resetCalls) != 1 || users.resetCalls[0] != "u1" {
		t.Fatalf("expected status reset for u1, got %v", users.resetCalls)
	}

	// Cancelling again while not queued is a no-op, never an error.
	if err := service.CancelMatching(context.Background(), "u1"); err != nil {
		t.Fatalf("second CancelMatching: %v", err)
	}
}

func TestCompatibilityScore(t *testing.T) {
	cases := []struct {
		name string
		ages []int
		want int
	}{
		{"identical ages", []int{30, 30, 30}, 100},
		{"five year spread", []int{28, 30, 33}, 90},
		{"ten year spread", []int{25, 30, 35}, 80},
		{"floored at seventy", []int{20, 40, 60}, 70},
		{"empty", nil, 70},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := compatibilityScore(tc.ages); got != tc.want {
				t.Fatalf("compatibilityScore(%v) = %d, want %d", tc.ages, got, tc.want)
			}
		})
	}
}

func TestCommonLanguagePrefersRequesterOrder(t *testing.T) {
	got := commonLanguage(
		[]string{"it", "en"},
		[]string{"en", "it"},
		[]string{"it"},
	)
	if got != "it" {
		t.Fatalf("expected it, got %s", got)
	}
}

func TestCommonLanguageFallsBackToRequesterFirst(t *testing.T) {
	got := commonLanguage(
		[]string{"de", "fr"},
		[]string{"en"},
		[]string{"es"},
	)
	if got != "de" {
		t.Fatalf("expected fallback de, got %s", got)
	}
}
