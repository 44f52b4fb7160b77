package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/store"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPFacade talks to a remote instance of this service over its REST API.
// Transport failures and server errors surface as ErrSyncUnavailable so a
// failover layer can step in.
type HTTPFacade struct {
	baseURL string
	// token is sent as a bearer credential. Real token issuance is out of
	// scope; any configured string is forwarded as-is.
	token  string
	client *http.Client
}

func NewHTTPFacade(baseURL, token string, client *http.Client) *HTTPFacade {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPFacade{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// envelope is the response wrapper the remote API uses on every endpoint.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *HTTPFacade) do(ctx context.Context, method, path, userID string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, store.ErrQuizSetNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: remote returned status %d", ErrSyncUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var env envelope
		if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr == nil && env.Message != "" {
			return fmt.Errorf("remote rejected request: %s", env.Message)
		}
		return fmt.Errorf("remote rejected request with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrSyncUnavailable, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode payload: %v", ErrSyncUnavailable, err)
	}
	return nil
}

func (f *HTTPFacade) GetQuizSets(ctx context.Context) ([]models.QuizSummary, error) {
	var summaries []models.QuizSummary
	if err := f.do(ctx, http.MethodGet, "/api/v1/quiz-sets", "", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (f *HTTPFacade) GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error) {
	detail := models.QuizDetail{QuizSet: new(models.QuizSet)}
	if err := f.do(ctx, http.MethodGet, "/api/v1/quiz-sets/"+url.PathEscape(id), "", nil, &detail); err != nil {
		return nil, err
	}
	set := detail.QuizSet
	set.ID = detail.ID
	if set.ID == "" {
		// older servers omit the id, so fall back to the one requested
		set.ID = id
	}
	return set, nil
}

func (f *HTTPFacade) GetQuestions(ctx context.Context, quizSetID string, opts QuestionsOptions) ([]models.Question, error) {
	params := url.Values{}
	if opts.Shuffle {
		params.Set("shuffle", "true")
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Difficulty != "" {
		params.Set("difficulty", string(opts.Difficulty))
	}

	path := "/api/v1/quiz-sets/" + url.PathEscape(quizSetID) + "/questions"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var questions []models.Question
	if err := f.do(ctx, http.MethodGet, path, "", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (f *HTTPFacade) GetProgress(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error) {
	var record models.ProgressRecord
	err := f.do(ctx, http.MethodGet, "/api/v1/progress/"+url.PathEscape(quizSetID), userID, nil, &record)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &record, true, nil
}

func (f *HTTPFacade) SaveProgress(ctx context.Context, record *models.ProgressRecord) error {
	path := "/api/v1/progress/" + url.PathEscape(record.QuizSetID)
	return f.do(ctx, http.MethodPut, path, record.UserID, record, nil)
}

func (f *HTTPFacade) SubmitQuiz(ctx context.Context, userID, quizSetID string, answers map[string]models.AnswerKey) (*models.QuizResults, error) {
	var body any
	if len(answers) > 0 {
		body = map[string]any{"answers": answers}
	}
	var results models.QuizResults
	path := "/api/v1/quiz-sets/" + url.PathEscape(quizSetID) + "/submit"
	if err := f.do(ctx, http.MethodPost, path, userID, body, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
