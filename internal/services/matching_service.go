package services

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/metrics"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUserNotFound  = errors.New("user not found")
	ErrForbidden     = errors.New("forbidden")
	ErrMemberClaimed = errors.New("member already claimed by another trio")

	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// Matching request outcomes.
const (
	MatchStateMatched = "matched"
	MatchStatePartial = "partial"
	MatchStateQueued  = "queued"
)

const (
	// ageWindowYears is the symmetric age window: a peer is eligible while
	// |peer.age - requester.age| <= ageWindowYears.
	ageWindowYears = 10

	// Synthetic values returned when the store is unreachable. The result is
	// tagged Degraded so callers can tell it apart from a real position.
	fallbackQueuePosition = 1
	fallbackWaitHours     = 24
)

type matchingUserStore interface {
	UpdateMatchingProfile(ctx context.Context, userID string, input repository.MatchingProfileInput) (*models.User, error)
	FindAvailableMatches(ctx context.Context, input repository.FindMatchesInput) ([]models.User, error)
	ResetToAvailable(ctx context.Context, userID string) error
}

type trioAssembler interface {
	FormTrio(ctx context.Context, requester *models.User, peers []models.User) (*models.Trio, error)
}

type queuePool interface {
	Enqueue(ctx context.Context, userID string) (*models.QueueEntry, error)
	Position(ctx context.Context, userID string) (int, error)
	Remove(ctx context.Context, userID string) error
}

type matchPublisher interface {
	PublishMatchFound(userID, trioID string) error
}

type MatchingRequest struct {
	Name         string
	Age          int
	Languages    []string
	WeightGoal   string
	FitnessLevel string
}

type MatchedPeer struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Compatibility int      `json:"compatibility"`
	SharedGoals   []string `json:"shared_goals"`
}

// MatchingResult is the tagged outcome of a matching request. Degraded marks a
// synthetic queued result produced after a data-store failure; its position and
// wait figures are placeholders, not real queue state.
type MatchingResult struct {
	State              string        `json:"state"`
	Matches            []MatchedPeer `json:"matches,omitempty"`
	TrioID             string        `json:"trio_id,omitempty"`
	QueuePosition      int           `json:"queue_position,omitempty"`
	EstimatedWaitHours int           `json:"estimated_wait_hours,omitempty"`
	Degraded           bool          `json:"degraded"`
}

type MatchingService struct {
	users     matchingUserStore
	queue     queuePool
	assembler trioAssembler
	publisher matchPublisher
}

func NewMatchingService(
	users matchingUserStore,
	queue queuePool,
	assembler trioAssembler,
	publisher matchPublisher,
) *MatchingService {
	return &MatchingService{
		users:     users,
		queue:     queue,
		assembler: assembler,
		publisher: publisher,
	}
}

// ProcessMatching upserts the requester's matching profile, searches for
// compatible available peers, and routes the trichotomy: two or more peers form
// a trio, exactly one yields a partial result, none queues the requester. Store
// failures past input validation degrade to a synthetic queued result instead
// of surfacing an error.
func (s *MatchingService) ProcessMatching(
	ctx context.Context,
	userID string,
	req MatchingRequest,
) (*MatchingResult, error) {
	if err := validateMatchingRequest(req); err != nil {
		return nil, err
	}

	profile, err := s.users.UpdateMatchingProfile(ctx, userID, repository.MatchingProfileInput{
		Name:         req.Name,
		Age:          req.Age,
		Languages:    req.Languages,
		WeightGoal:   req.WeightGoal,
		FitnessLevel: req.FitnessLevel,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return s.degradedResult(userID, err), nil
	}

	peers, err := s.users.FindAvailableMatches(ctx, repository.FindMatchesInput{
		UserID:       userID,
		WeightGoal:   req.WeightGoal,
		FitnessLevel: req.FitnessLevel,
		AgeMin:       req.Age - ageWindowYears,
		AgeMax:       req.Age + ageWindowYears,
		Languages:    req.Languages,
		Limit:        2,
	})
	if err != nil {
		return s.degradedResult(userID, err), nil
	}

	if len(peers) >= 2 {
		result, err := s.tryFormTrio(ctx, profile, peers[:2])
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrMemberClaimed) {
			return s.degradedResult(userID, err), nil
		}
		// Lost the race for at least one peer; fall through to the queue.
	}

	if len(peers) == 1 {
		return s.partialResult(ctx, userID, profile, &peers[0])
	}
	return s.queuedResult(ctx, userID)
}

func (s *MatchingService) tryFormTrio(
	ctx context.Context,
	requester *models.User,
	peers []models.User,
) (*MatchingResult, error) {
	timer := prometheus.NewTimer(metrics.FormationDuration)
	trio, err := s.assembler.FormTrio(ctx, requester, peers)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	for _, memberID := range trio.MemberIDs() {
		if s.publisher == nil {
			break
		}
		if err := s.publisher.PublishMatchFound(memberID, trio.ID); err != nil {
			log.Printf("[matching] publish match for %s: %v", memberID, err)
		}
	}

	metrics.MatchOutcomes.WithLabelValues(MatchStateMatched).Inc()
	metrics.TriosFormed.Inc()

	matches := make([]MatchedPeer, 0, len(peers))
	for _, peer := range peers {
		matches = append(matches, MatchedPeer{
			ID:            peer.ID,
			Name:          stringValue(peer.Name),
			Age:           intValue(peer.Age),
			Compatibility: trio.CompatibilityScore,
			SharedGoals:   []string{trio.WeightGoal},
		})
	}
	return &MatchingResult{
		State:   MatchStateMatched,
		Matches: matches,
		TrioID:  trio.ID,
	}, nil
}

func (s *MatchingService) partialResult(
	ctx context.Context,
	userID string,
	requester *models.User,
	peer *models.User,
) (*MatchingResult, error) {
	position, err := s.enqueueAvailable(ctx, userID)
	if err != nil {
		return s.degradedResult(userID, err), nil
	}

	metrics.MatchOutcomes.WithLabelValues(MatchStatePartial).Inc()
	return &MatchingResult{
		State: MatchStatePartial,
		Matches: []MatchedPeer{{
			ID:            peer.ID,
			Name:          stringValue(peer.Name),
			Age:           intValue(peer.Age),
			Compatibility: pairCompatibility(requester, peer),
			SharedGoals:   []string{stringValue(peer.WeightGoal)},
		}},
		QueuePosition:      position,
		EstimatedWaitHours: EstimatedWaitHours(position),
	}, nil
}

func (s *MatchingService) queuedResult(ctx context.Context, userID string) (*MatchingResult, error) {
	position, err := s.enqueueAvailable(ctx, userID)
	if err != nil {
		return s.degradedResult(userID, err), nil
	}

	metrics.MatchOutcomes.WithLabelValues(MatchStateQueued).Inc()
	return &MatchingResult{
		State:              MatchStateQueued,
		QueuePosition:      position,
		EstimatedWaitHours: EstimatedWaitHours(position),
	}, nil
}

// enqueueAvailable inserts the requester into the waiting pool and reasserts
// status available so the user stays discoverable by future searches.
func (s *MatchingService) enqueueAvailable(ctx context.Context, userID string) (int, error) {
	if _, err := s.queue.Enqueue(ctx, userID); err != nil {
		return 0, err
	}
	if err := s.users.ResetToAvailable(ctx, userID); err != nil {
		return 0, err
	}
	return s.queue.Position(ctx, userID)
}

func (s *MatchingService) degradedResult(userID string, cause error) *MatchingResult {
	log.Printf("[matching] degraded result for %s: %v", userID, cause)
	metrics.MatchOutcomes.WithLabelValues("degraded").Inc()
	return &MatchingResult{
		State:              MatchStateQueued,
		QueuePosition:      fallbackQueuePosition,
		EstimatedWaitHours: fallbackWaitHours,
		Degraded:           true,
	}
}

// GetQueuePosition returns the caller's 1-based FIFO rank, 0 when not queued.
// Unlike ProcessMatching this propagates store errors to the caller.
func (s *MatchingService) GetQueuePosition(ctx context.Context, userID string) (int, error) {
	return s.queue.Position(ctx, userID)
}

// CancelMatching removes the user from the queue and resets the matching
// status. Cancelling twice, or cancelling while never queued, is a no-op.
func (s *MatchingService) CancelMatching(ctx context.Context, userID string) error {
	if err := s.queue.Remove(ctx, userID); err != nil {
		return err
	}
	return s.users.ResetToAvailable(ctx, userID)
}

func validateMatchingRequest(req MatchingRequest) error {
	if req.Name == "" || req.Age <= 0 || len(req.Languages) == 0 {
		return ErrInvalidInput
	}
	if req.WeightGoal == "" || req.FitnessLevel == "" {
		return ErrInvalidInput
	}
	return nil
}

// compatibilityScore is deterministic: 100 minus two points per year of age
// spread across the members, floored at 70.
func compatibilityScore(ages []int) int {
	if len(ages) == 0 {
		return 70
	}
	min, max := ages[0], ages[0]
	for _, age := range ages[1:] {
		if age < min {
			min = age
		}
		if age > max {
			max = age
		}
	}
	score := 100 - 2*(max-min)
	if score < 70 {
		return 70
	}
	return score
}

func pairCompatibility(a, b *models.User) int {
	return compatibilityScore([]int{intValue(a.Age), intValue(b.Age)})
}

// commonLanguage picks a language spoken by every member, preferring the
// requester's ordering. When no strict intersection exists it falls back to the
// requester's first language; that fallback is best-effort and can name a
// language not shared by all members.
func commonLanguage(requester []string, others ...[]string) string {
	for _, candidate := range requester {
		shared := true
		for _, set := range others {
			if !containsLanguage(set, candidate) {
				shared = false
				break
			}
		}
		if shared {
			return candidate
		}
	}
	if len(requester) > 0 {
		return requester[0]
	}
	return ""
}

func containsLanguage(set []string, language string) bool {
	for _, l := range set {
		if l == language {
			return true
		}
	}
	return false
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
