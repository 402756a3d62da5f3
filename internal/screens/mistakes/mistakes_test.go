package mistakes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	"github.com/HeoJaeryoung/aice-project/internal/screen"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func noteJSON(id int, text string, count int, mastered bool) string {
	return fmt.Sprintf(`{"note_id":%d,"mistake_count":%d,"mastered":%t,
		"question":{"question_id":%d,"question_text":%q,
		"option_a":"one","option_b":"two","option_c":"three","option_d":"four",
		"difficulty":"easy","correct_answer":"b","explanation":null,
		"topic_id":null,"topic_name":null,"created_at":"2026-01-01T00:00:00Z"}}`,
		id, count, mastered, id, text)
}

func testBackend(t *testing.T) (*api.Client, *int) {
	t.Helper()
	solutionCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /study/mistakes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mastered") == "" {
			fmt.Fprintf(w, `{"mistakes":[%s,%s,%s],"count":3}`,
				noteJSON(1, "What is overfitting?", 3, false),
				noteJSON(2, "Pick the activation function", 2, false),
				noteJSON(3, "Define precision", 1, true))
			return
		}
		fmt.Fprintf(w, `{"mistakes":[%s,%s],"count":2}`,
			noteJSON(1, "What is overfitting?", 3, false),
			noteJSON(2, "Pick the activation function", 2, false))
	})
	mux.HandleFunc("GET /questions/1/solution", func(w http.ResponseWriter, r *http.Request) {
		solutionCalls++
		fmt.Fprint(w, `{"question_id":1,"question_text":"What is overfitting?",
			"option_a":"one","option_b":"two","option_c":"three","option_d":"four",
			"difficulty":"easy","correct_answer":"b",
			"explanation":"The model memorizes noise in the training data.",
			"topic_id":null,"topic_name":null,"created_at":"2026-01-01T00:00:00Z"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.New(srv.URL), &solutionCalls
}

func loadedScreen(t *testing.T) (*MistakesScreen, *int) {
	t.Helper()
	client, solutionCalls := testBackend(t)
	s := New(client)

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command from Init")
	}
	scr, _ := s.Update(cmd())
	return scr.(*MistakesScreen), solutionCalls
}

func TestMistakesScreen_LoadsUnmasteredByDefault(t *testing.T) {
	s, _ := loadedScreen(t)

	if len(s.notes) != 2 {
		t.Fatalf("len(notes) = %d, want 2", len(s.notes))
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "1-2 of 2 (unmastered)") {
		t.Errorf("expected unmastered page header, got:\n%s", view)
	}
	if !strings.Contains(view, "wrong x3") {
		t.Error("expected mistake count in view")
	}
}

func TestMistakesScreen_MasteredFilterToggle(t *testing.T) {
	s, _ := loadedScreen(t)

	var scr screen.Screen = s
	scr, cmd := scr.Update(keyPress('m'))
	if cmd == nil {
		t.Fatal("expected a reload command after toggling the filter")
	}
	scr, _ = scr.Update(cmd())
	ms := scr.(*MistakesScreen)

	if len(ms.notes) != 3 {
		t.Fatalf("len(notes) = %d, want 3 with mastered included", len(ms.notes))
	}
	if !strings.Contains(ms.View(80, 24), "[mastered]") {
		t.Error("expected mastered badge in view")
	}
}

func TestMistakesScreen_ExpandFetchesSolutionOnce(t *testing.T) {
	s, solutionCalls := loadedScreen(t)

	var scr screen.Screen = s
	scr, cmd := scr.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a solution fetch on first expand")
	}
	scr, _ = scr.Update(cmd())
	ms := scr.(*MistakesScreen)

	if *solutionCalls != 1 {
		t.Fatalf("solution endpoint called %d times, want 1", *solutionCalls)
	}
	view := ms.View(80, 30)
	if !strings.Contains(view, "memorizes noise") {
		t.Errorf("expected fetched explanation in view, got:\n%s", view)
	}
	if !strings.Contains(view, "B)  two") {
		t.Error("expected correct option in solution card")
	}

	// Collapse, expand again: the cache answers.
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr, cmd = scr.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no refetch for a cached solution")
	}
	if *solutionCalls != 1 {
		t.Errorf("solution endpoint called %d times after re-expand, want 1", *solutionCalls)
	}
}

func TestMistakesScreen_EmptyState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /study/mistakes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"mistakes":[],"count":0}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := New(api.New(srv.URL))
	scr, _ := s.Update(s.Init()())
	view := scr.(*MistakesScreen).View(80, 24)
	if !strings.Contains(view, "No mistakes recorded") {
		t.Errorf("expected empty state, got:\n%s", view)
	}
}
