package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/askhub/internal/domain/answer"
	"github.com/geocoder89/askhub/internal/domain/question"
	"github.com/geocoder89/askhub/internal/http/handlers"
	"github.com/google/uuid"
)

// Fakes for handlers.AnswerStore and handlers.QuestionFinder

type fakeAnswerStore struct {
	createFn func(ctx context.Context, a answer.Answer) error
	listFn   func(ctx context.Context, questionID string) ([]answer.WithAuthor, error)
}

func (f *fakeAnswerStore) Create(ctx context.Context, a answer.Answer) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAnswerStore) ListByQuestion(ctx context.Context, questionID string) ([]answer.WithAuthor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, questionID)
	}
	return []answer.WithAuthor{}, nil
}

type fakeQuestionFinder struct {
	existsFn func(ctx context.Context, id string) (bool, error)
}

func (f *fakeQuestionFinder) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, id)
	}
	return false, nil
}

func TestPostAnswerHandler(t *testing.T) {
	mgr := testJWT()
	questionID := uuid.NewString()

	tests := []struct {
		name           string
		path           string
		body           string
		storeSetup     func(*fakeAnswerStore, *fakeQuestionFinder)
		wantStatusCode int
	}{
		{
			name: "success",
			path: "/answer/" + questionID,
			body: `{"answer":"Use channels."}`,
			storeSetup: func(a *fakeAnswerStore, q *fakeQuestionFinder) {
				q.existsFn = func(ctx context.Context, id string) (bool, error) {
					return id == questionID, nil
				}
				a.createFn = func(ctx context.Context, ans answer.Answer) error {
					if ans.ID == "" {
						return errors.New("expected a generated id")
					}
					if ans.UserID != "u-2" {
						return errors.New("author must come from the token")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "unknown_question",
			path: "/answer/" + uuid.NewString(),
			body: `{"answer":"Use channels."}`,
			storeSetup: func(a *fakeAnswerStore, q *fakeQuestionFinder) {
				q.existsFn = func(ctx context.Context, id string) (bool, error) {
					return false, nil
				}
				a.createFn = func(ctx context.Context, ans answer.Answer) error {
					return errors.New("insert must not happen for a missing question")
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid_question_id",
			path:           "/answer/not-a-uuid",
			body:           `{"answer":"Use channels."}`,
			storeSetup:     func(a *fakeAnswerStore, q *fakeQuestionFinder) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing_answer_text",
			path: "/answer/" + questionID,
			body: `{}`,
			storeSetup: func(a *fakeAnswerStore, q *fakeQuestionFinder) {
				q.existsFn = func(ctx context.Context, id string) (bool, error) {
					return true, nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "store_error",
			path: "/answer/" + questionID,
			body: `{"answer":"Use channels."}`,
			storeSetup: func(a *fakeAnswerStore, q *fakeQuestionFinder) {
				q.existsFn = func(ctx context.Context, id string) (bool, error) {
					return true, nil
				}
				a.createFn = func(ctx context.Context, ans answer.Answer) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			// the question passed the existence check but was deleted
			// before the insert landed
			name: "question_deleted_mid_flight",
			path: "/answer/" + questionID,
			body: `{"answer":"Use channels."}`,
			storeSetup: func(a *fakeAnswerStore, q *fakeQuestionFinder) {
				q.existsFn = func(ctx context.Context, id string) (bool, error) {
					return true, nil
				}
				a.createFn = func(ctx context.Context, ans answer.Answer) error {
					return question.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			answers := &fakeAnswerStore{}
			questions := &fakeQuestionFinder{}
			tt.storeSetup(answers, questions)

			h := handlers.NewAnswersHandler(answers, questions)
			r := setupAuthedRouter(http.MethodPost, "/answer/:questionid", mgr, h.Post)

			w := doRequest(r, http.MethodPost, tt.path, tt.body, bearerToken(t, mgr, "u-2", "pat"))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListAnswersHandler(t *testing.T) {
	mgr := testJWT()
	now := time.Now().UTC()

	t.Run("missing query param", func(t *testing.T) {
		h := handlers.NewAnswersHandler(&fakeAnswerStore{}, &fakeQuestionFinder{})
		r := setupAuthedRouter(http.MethodGet, "/answer", mgr, h.ListForQuestion)

		w := doRequest(r, http.MethodGet, "/answer", "", bearerToken(t, mgr, "u-1", "sam"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown question is 404", func(t *testing.T) {
		h := handlers.NewAnswersHandler(&fakeAnswerStore{}, &fakeQuestionFinder{})
		r := setupAuthedRouter(http.MethodGet, "/answer", mgr, h.ListForQuestion)

		w := doRequest(r, http.MethodGet, "/answer?questionid=q-missing", "", bearerToken(t, mgr, "u-1", "sam"))

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("existing question with zero answers is 200 with empty list", func(t *testing.T) {
		questions := &fakeQuestionFinder{
			existsFn: func(ctx context.Context, id string) (bool, error) {
				return true, nil
			},
		}

		h := handlers.NewAnswersHandler(&fakeAnswerStore{}, questions)
		r := setupAuthedRouter(http.MethodGet, "/answer", mgr, h.ListForQuestion)

		w := doRequest(r, http.MethodGet, "/answer?questionid=q-1", "", bearerToken(t, mgr, "u-1", "sam"))

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp struct {
			Answers []answer.WithAuthor `json:"answers"`
			Count   int                 `json:"count"`
		}

		mustReadJSON(t, w, &resp)

		if resp.Count != 0 || len(resp.Answers) != 0 {
			t.Fatalf("expected an empty list, body=%s", w.Body.String())
		}
	})

	t.Run("answers come back with author usernames", func(t *testing.T) {
		questions := &fakeQuestionFinder{
			existsFn: func(ctx context.Context, id string) (bool, error) {
				return true, nil
			},
		}

		answers := &fakeAnswerStore{
			listFn: func(ctx context.Context, questionID string) ([]answer.WithAuthor, error) {
				return []answer.WithAuthor{
					{
						Answer:   answer.Answer{ID: "a-1", UserID: "u-2", QuestionID: questionID, Answer: "Use channels.", CreatedAt: now},
						Username: "pat",
					},
				}, nil
			},
		}

		h := handlers.NewAnswersHandler(answers, questions)
		r := setupAuthedRouter(http.MethodGet, "/answer", mgr, h.ListForQuestion)

		w := doRequest(r, http.MethodGet, "/answer?questionid=q-1", "", bearerToken(t, mgr, "u-1", "sam"))

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		var resp struct {
			Answers []answer.WithAuthor `json:"answers"`
		}

		mustReadJSON(t, w, &resp)

		if len(resp.Answers) != 1 || resp.Answers[0].Username != "pat" {
			t.Fatalf("unexpected payload: %s", w.Body.String())
		}
	})
}
