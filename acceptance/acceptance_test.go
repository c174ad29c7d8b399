package acceptance

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven/mocks"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-core/internal/core/services"
)

// world holds one scenario's service stack and the outcome of the last
// query so Then-steps can assert on it.
type world struct {
	auth    driving.AuthService
	files   driving.FileService
	ingest  driving.IngestionService
	query   driving.QueryService
	llm     *mocks.MockLLMService
	content *mocks.MockParsedContentStore

	owner      string
	lastFileID string
	lastResult *domain.QueryResult
	lastErr    error
}

func (w *world) reset() error {
	users := mocks.NewMockUserStore()
	sessions := mocks.NewMockSessionStore()
	files := mocks.NewMockFileStore()
	w.content = mocks.NewMockParsedContentStore()
	blobs := mocks.NewMockBlobStore()
	lock := mocks.NewMockDistributedLock()
	embedder := mocks.NewMockEmbeddingService()
	w.llm = mocks.NewMockLLMService()

	chunker, err := services.NewChunker(services.DefaultChunkSize, services.DefaultOverlap)
	if err != nil {
		return err
	}
	answerer, err := services.NewAnswerer(context.Background(), w.llm)
	if err != nil {
		return err
	}

	w.auth = services.NewAuthService(users, sessions, mocks.NewMockAuthAdapter())
	w.files = services.NewFileService(users, files, blobs)
	w.ingest = services.NewIngestionService(users, files, w.content, blobs,
		mocks.NewMockExtractor(), embedder, chunker, lock, nil)
	w.query = services.NewQueryService(users, w.content, embedder, answerer, nil)

	w.owner = ""
	w.lastFileID = ""
	w.lastResult = nil
	w.lastErr = nil
	return nil
}

func (w *world) aRegisteredUser(username string) error {
	_, err := w.auth.Register(context.Background(), domain.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret",
	})
	if err != nil {
		return err
	}
	w.owner = username
	return nil
}

func (w *world) hasUploadedAFileContaining(username, name string, content *godog.DocString) error {
	file, err := w.files.Upload(context.Background(), username, name, "text/plain",
		[]byte(content.Content))
	if err != nil {
		return err
	}
	w.lastFileID = file.ID
	return nil
}

func (w *world) theFileHasBeenParsed() error {
	_, err := w.ingest.Ingest(context.Background(), w.owner, w.lastFileID)
	return err
}

func (w *world) theModelAnswers(answer string) error {
	w.llm.SetAnswer(answer)
	return nil
}

func (w *world) asks(username, question string) error {
	w.lastResult, w.lastErr = w.query.Query(context.Background(), username, w.lastFileID,
		domain.QueryRequest{Query: question})
	return nil
}

func (w *world) theAnswerIs(expected string) error {
	if w.lastErr != nil {
		return fmt.Errorf("query failed: %w", w.lastErr)
	}
	if w.lastResult.Answer != expected {
		return fmt.Errorf("expected answer %q, got %q", expected, w.lastResult.Answer)
	}
	return nil
}

func (w *world) theResultIncludesAtLeastSourceChunks(n int) error {
	if w.lastErr != nil {
		return fmt.Errorf("query failed: %w", w.lastErr)
	}
	if len(w.lastResult.SourceChunks) < n {
		return fmt.Errorf("expected at least %d source chunks, got %d",
			n, len(w.lastResult.SourceChunks))
	}
	return nil
}

func (w *world) theQueryFailsWith(code string) error {
	if w.lastErr == nil {
		return fmt.Errorf("expected query to fail with %q, but it succeeded", code)
	}
	if got := domain.ErrorCode(w.lastErr); got != code {
		return fmt.Errorf("expected error code %q, got %q (%v)", code, got, w.lastErr)
	}
	return nil
}

func (w *world) theModelWasNeverCalled() error {
	if w.llm.GenerateCalls != 0 {
		return fmt.Errorf("expected zero model calls, got %d", w.llm.GenerateCalls)
	}
	return nil
}

func (w *world) theFileIsParsedAgain() error {
	_, err := w.ingest.Ingest(context.Background(), w.owner, w.lastFileID)
	return err
}

func (w *world) theParsedContentWasStoredExactlyTimes(n int) error {
	if w.content.SaveCalls != n {
		return fmt.Errorf("expected %d store calls, got %d", n, w.content.SaveCalls)
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	w := &world{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, w.reset()
	})

	sc.Step(`^a registered user "([^"]*)"$`, w.aRegisteredUser)
	sc.Step(`^"([^"]*)" has uploaded a file "([^"]*)" containing:$`, w.hasUploadedAFileContaining)
	sc.Step(`^the file has been parsed$`, w.theFileHasBeenParsed)
	sc.Step(`^the model answers "([^"]*)"$`, w.theModelAnswers)
	sc.Step(`^"([^"]*)" asks "([^"]*)"$`, w.asks)
	sc.Step(`^the answer is "([^"]*)"$`, w.theAnswerIs)
	sc.Step(`^the result includes at least (\d+) source chunks?$`, w.theResultIncludesAtLeastSourceChunks)
	sc.Step(`^the query fails with "([^"]*)"$`, w.theQueryFailsWith)
	sc.Step(`^the model was never called$`, w.theModelWasNeverCalled)
	sc.Step(`^the file is parsed again$`, w.theFileIsParsedAgain)
	sc.Step(`^the parsed content was stored exactly (\d+) times?$`, w.theParsedContentWasStoredExactlyTimes)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
