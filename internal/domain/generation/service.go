package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sitesmith/sitesmith-api/internal/domain/credit"
	"github.com/sitesmith/sitesmith-api/internal/domain/project"
	"github.com/sitesmith/sitesmith-api/internal/domain/user"
	"github.com/sitesmith/sitesmith-api/internal/pkg/llm"
)

// Cost is the fixed credit price of one generation or revision.
const Cost = 5

// defaultJobTimeout bounds one background job end to end, both model
// calls included.
const defaultJobTimeout = 5 * time.Minute

// Transformer runs the model-facing stages of the pipeline
type Transformer interface {
	Enhance(ctx context.Context, raw string) string
	GenerateCode(ctx context.Context, prompt string) (string, error)
	Revise(ctx context.Context, currentCode, instruction string) (string, error)
}

// job identifies one debited attempt. The ledger rows of the attempt are
// keyed by entityType/entityID, which is also the idempotency key of the
// compensating refund.
type job struct {
	userID     uuid.UUID
	projectID  uuid.UUID
	entityType string
	entityID   uuid.UUID
}

// Service orchestrates the generation saga: debit, respond, transform in
// the background, then persist a version or refund. Once the debit lands
// the service owns an obligation to end at exactly one of those two.
type Service struct {
	projects    project.Repository
	credits     credit.Service
	users       user.Repository
	transformer Transformer
	jobTimeout  time.Duration

	wg sync.WaitGroup
}

// NewService creates generation service
func NewService(projects project.Repository, credits credit.Service, users user.Repository, transformer Transformer) *Service {
	return &Service{
		projects:    projects,
		credits:     credits,
		users:       users,
		transformer: transformer,
		jobTimeout:  defaultJobTimeout,
	}
}

// Wait blocks until all in-flight background jobs finish. Called on
// shutdown so debited jobs are not abandoned mid-saga.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Create starts a new project. The synchronous phase validates, creates
// the project shell with its initial conversation entry, debits the
// cost, and returns the project. The transform stages run detached after
// the caller has its response.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, prompt string) (*project.Project, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.CreditBalance < Cost {
		return nil, credit.ErrInsufficientCredits
	}

	now := time.Now()
	p := &project.Project{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          project.DeriveName(prompt),
		InitialPrompt: prompt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.projects.CreateShell(ctx, p, prompt); err != nil {
		return nil, err
	}

	// The initial generation is the only attempt keyed by the project
	// itself, so its ledger rows stay linked to the project.
	j := job{userID: userID, projectID: p.ID, entityType: credit.RelatedEntityProject, entityID: p.ID}

	if err := s.credits.Debit(ctx, userID, Cost, credit.TransactionMeta{
		RelatedEntityType: j.entityType,
		RelatedEntityID:   j.entityID,
		Description:       "Website generation",
	}); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.runCreate(j, prompt)

	return p, nil
}

// Iterate requests a revision of an existing project. Same saga as
// Create, minus the enhancement stage: the follow-up prompt is already a
// concrete change request against the current code. Each revision gets
// its own attempt id so its refund guard is independent of earlier
// attempts on the same project.
func (s *Service) Iterate(ctx context.Context, userID, projectID uuid.UUID, prompt string) (*project.Project, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	p, err := s.projects.GetByIDForUser(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.CreditBalance < Cost {
		return nil, credit.ErrInsufficientCredits
	}

	j := job{userID: userID, projectID: p.ID, entityType: credit.RelatedEntityGeneration, entityID: uuid.New()}

	if err := s.credits.Debit(ctx, userID, Cost, credit.TransactionMeta{
		RelatedEntityType: j.entityType,
		RelatedEntityID:   j.entityID,
		Description:       "Website revision",
	}); err != nil {
		return nil, err
	}

	// A debit lost to a balance race must not leave a dangling user
	// entry with no reply, so the append only happens once the debit
	// has committed.
	if _, err := s.projects.AppendMessage(ctx, p.ID, project.RoleUser, prompt); err != nil {
		s.refund(ctx, j)
		return nil, err
	}

	currentCode := ""
	if p.CurrentCode != nil {
		currentCode = *p.CurrentCode
	}

	s.wg.Add(1)
	go s.runIterate(j, currentCode, prompt)

	return p, nil
}

// runCreate is the detached background leg of Create. It never returns
// an error: every outcome ends in a conversation entry, and every
// non-success outcome ends in a compensating refund.
func (s *Service) runCreate(j job, prompt string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("project_id", j.projectID.String()).Msg("Generation job panicked")
			s.finishFailed(ctx, j, "Something went wrong while generating your website. Your credits have been refunded.")
		}
	}()

	enhanced := s.transformer.Enhance(ctx, prompt)
	s.appendAssistant(ctx, j.projectID, "Here is the refined brief I will build from:\n\n"+enhanced)
	s.appendAssistant(ctx, j.projectID, "Generating your website now. This can take a minute.")

	code, err := s.transformer.GenerateCode(ctx, enhanced)
	s.finish(ctx, j, code, err, "Initial generation")
}

// runIterate is the detached background leg of Iterate.
func (s *Service) runIterate(j job, currentCode, prompt string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("project_id", j.projectID.String()).Msg("Revision job panicked")
			s.finishFailed(ctx, j, "Something went wrong while revising your website. Your credits have been refunded.")
		}
	}()

	s.appendAssistant(ctx, j.projectID, "Applying your changes now. This can take a minute.")

	code, err := s.transformer.Revise(ctx, currentCode, prompt)
	s.finish(ctx, j, code, err, project.DeriveName(prompt))
}

// finish resolves a job to its terminal state: version persisted on
// success, refund otherwise.
func (s *Service) finish(ctx context.Context, j job, code string, err error, description string) {
	if err != nil {
		if errors.Is(err, llm.ErrEmptyCompletion) {
			log.Warn().Str("project_id", j.projectID.String()).Msg("Model returned an empty document")
			s.finishFailed(ctx, j, "The model returned an empty result, so no version was saved. Your credits have been refunded.")
			return
		}
		log.Error().Err(err).Str("project_id", j.projectID.String()).Msg("Code generation failed")
		s.finishFailed(ctx, j, "Website generation failed. Your credits have been refunded.")
		return
	}

	versionID, err := s.projects.CreateVersion(ctx, j.projectID, code, description)
	if err != nil {
		log.Error().Err(err).Str("project_id", j.projectID.String()).Msg("Failed to persist version")
		s.finishFailed(ctx, j, "Website generation failed. Your credits have been refunded.")
		return
	}

	if err := s.projects.SetCurrentVersion(ctx, j.projectID, versionID, code); err != nil {
		log.Error().Err(err).Str("project_id", j.projectID.String()).Msg("Failed to advance current version")
		s.finishFailed(ctx, j, "Website generation failed. Your credits have been refunded.")
		return
	}

	s.appendAssistant(ctx, j.projectID, "Your website is ready. Open the preview to take a look.")
}

// finishFailed appends the terminal failure entry and issues the
// compensating refund.
func (s *Service) finishFailed(ctx context.Context, j job, notice string) {
	s.appendAssistant(ctx, j.projectID, notice)
	s.refund(ctx, j)
}

// refund restores the debited cost at most once per attempt. Refund
// failures are logged and swallowed: the caller already has its
// response, and a retry here risks a double refund.
func (s *Service) refund(ctx context.Context, j job) {
	refunded, err := s.credits.HasRefundFor(ctx, j.entityType, j.entityID)
	if err != nil {
		log.Error().Err(err).Str("project_id", j.projectID.String()).Msg("Failed to check refund state, skipping refund")
		return
	}
	if refunded {
		log.Warn().Str("project_id", j.projectID.String()).Msg("Refund already issued for attempt, skipping")
		return
	}

	err = s.credits.Refund(ctx, j.userID, Cost, credit.TransactionMeta{
		RelatedEntityType: j.entityType,
		RelatedEntityID:   j.entityID,
		Description:       "Refund for failed generation",
	})
	if err != nil {
		log.Error().Err(err).Str("project_id", j.projectID.String()).Str("user_id", j.userID.String()).Msg("Compensating refund failed")
	}
}

// appendAssistant writes one assistant conversation entry. An append
// failure is logged and the pipeline continues: later entries and the
// refund matter more than a lost notice.
func (s *Service) appendAssistant(ctx context.Context, projectID uuid.UUID, content string) {
	if _, err := s.projects.AppendMessage(ctx, projectID, project.RoleAssistant, content); err != nil {
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to append conversation entry")
	}
}
