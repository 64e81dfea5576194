package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger(&config.Config{Server: config.ServerConfig{Mode: "debug"}})
}

func engineConfig(baseURL string, retries int) config.EngineConfig {
	return config.EngineConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		Retries: retries,
		Backoff: 5 * time.Millisecond,
	}
}

func analyzeBody() map[string]interface{} {
	return map[string]interface{}{
		"ai_generated_careers": []map[string]interface{}{
			{"title": "Data Analyst", "match": 87},
		},
		"pdf_based_careers": []map[string]interface{}{
			{"title": "Software Engineer", "match": 91},
		},
	}
}

func TestAnalyzeAnswersRetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(analyzeBody())
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 2))
	reply, err := client.AnalyzeAnswers(context.Background(), AnalyzeRequest{GroupName: "College Student"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "Data Analyst", reply.AICareers[0].Title)
	assert.Equal(t, "Software Engineer", reply.PDFCareers[0].Title)
}

func TestAnalyzeAnswersExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 2))
	_, err := client.AnalyzeAnswers(context.Background(), AnalyzeRequest{})

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestAnalyzeAnswersCancelNotRetried(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		close(started)
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(analyzeBody())
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewEngineClient(engineConfig(server.URL, 2))
	_, err := client.AnalyzeAnswers(ctx, AnalyzeRequest{})

	require.ErrorIs(t, err, util.ErrEngineCancelled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "cancelled call must not be retried")
}

func TestAnalyzeAnswersMissingCareerListIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 缺 pdf_based_careers
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ai_generated_careers": []map[string]interface{}{{"title": "Designer", "match": 70}},
		})
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 2))
	_, err := client.AnalyzeAnswers(context.Background(), AnalyzeRequest{})

	require.ErrorIs(t, err, util.ErrInvalidEngineReply)
}

func TestAnalyzeAnswersTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(analyzeBody())
	}))
	defer server.Close()

	cfg := engineConfig(server.URL, 0)
	cfg.Timeout = 30 * time.Millisecond
	client := NewEngineClient(cfg)

	_, err := client.AnalyzeAnswers(context.Background(), AnalyzeRequest{})
	require.ErrorIs(t, err, util.ErrEngineTimeout)
}

func TestAnalyzeAnswersBusinessErrorInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 0))
	_, err := client.AnalyzeAnswers(context.Background(), AnalyzeRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PreviousQA []model.Answer `json:"previousQA"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.PreviousQA, 2)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"question": map[string]interface{}{
				"question": "Which task sounds most fun?",
				"options":  []string{"Building", "Designing", "Explaining", "Organizing"},
			},
		})
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 0))
	question, err := client.GenerateQuestion(context.Background(), []model.Answer{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Which task sounds most fun?", question.Text)
	assert.Len(t, question.Options, 4)
	assert.False(t, question.Skippable)
}

func TestGenerateQuestionEmptyReplyIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"question": map[string]interface{}{}})
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 0))
	_, err := client.GenerateQuestion(context.Background(), nil)

	require.ErrorIs(t, err, util.ErrInvalidEngineReply)
}

func TestCoursePlanUnwrapsPlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"plan": map[string]interface{}{
				"day0_30": []string{"Learn basics"},
			},
		})
	}))
	defer server.Close()

	client := NewEngineClient(engineConfig(server.URL, 0))
	raw, err := client.CoursePlan(context.Background(), CoursePlanRequest{CareerTitle: "Data Analyst", Course: "SQL"})

	require.NoError(t, err)
	assert.Contains(t, string(raw), "Learn basics")
}
