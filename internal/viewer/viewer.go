// Package viewer serves a generated plan as a browsable dependency graph.
package viewer

import (
	"embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mintu3770/task-planner/internal/cpm"
	"github.com/mintu3770/task-planner/internal/plan"
)

//go:embed assets/index.html
var assetsFS embed.FS

// --- Graph types (the schema the page renders) ---

type GraphNode struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	DurationDays float64 `json:"duration_days"`
	IsCritical   bool    `json:"is_critical"`
	WaveIndex    int     `json:"wave_index"`
}

type GraphEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type GraphMetadata struct {
	ID                string  `json:"id"`
	Goal              string  `json:"goal"`
	Model             string  `json:"model"`
	CreatedAt         string  `json:"created_at"`
	TotalTasks        int     `json:"total_tasks"`
	TotalDurationDays float64 `json:"total_duration_days"`
}

type Graph struct {
	Nodes        []GraphNode   `json:"nodes"`
	Edges        []GraphEdge   `json:"edges"`
	CriticalPath []int         `json:"critical_path"`
	Metadata     GraphMetadata `json:"metadata"`
}

// ToGraph converts a validated plan and its schedule into the normalised
// Graph the page renders.
func ToGraph(p *plan.Plan, schedule *cpm.Result) *Graph {
	nodes := make([]GraphNode, 0, len(p.Tasks))
	var edges []GraphEdge
	for _, t := range p.Tasks {
		node := GraphNode{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			DurationDays: t.DurationDays,
		}
		if ts, ok := schedule.Tasks[t.ID]; ok {
			node.IsCritical = ts.IsCritical
			node.WaveIndex = ts.Wave
		}
		nodes = append(nodes, node)

		for _, dep := range t.DependsOn {
			edges = append(edges, GraphEdge{From: dep, To: t.ID})
		}
	}

	return &Graph{
		Nodes:        nodes,
		Edges:        edges,
		CriticalPath: schedule.CriticalPath,
		Metadata: GraphMetadata{
			ID:                p.ID,
			Goal:              p.Goal,
			Model:             p.Model,
			CreatedAt:         p.CreatedAt.Format(time.RFC3339),
			TotalTasks:        len(p.Tasks),
			TotalDurationDays: schedule.TotalDuration,
		},
	}
}

// --- HTTP server ---

type server struct {
	mu    sync.RWMutex
	graph *Graph
}

func (s *server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "no plan loaded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

// handlePostGraph replaces the displayed plan. The body is a plan JSON as
// produced by `--output`; the graph is rebuilt server-side so posted plans
// go through the same schedule analysis.
func (s *server) handlePostGraph(w http.ResponseWriter, r *http.Request) {
	var p plan.Plan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	schedule, err := cpm.Analyze(p.Graph())
	if err != nil {
		http.Error(w, "invalid plan: "+err.Error(), http.StatusBadRequest)
		return
	}
	g := ToGraph(&p, schedule)

	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(g)
}

// Start launches the viewer HTTP server on the given port in the
// background, seeded with the given graph. Returns the base URL (e.g.
// "http://localhost:7171") or an error.
func Start(port int, g *Graph) (string, error) {
	srv := &server{graph: g}
	mux := http.NewServeMux()

	mux.HandleFunc("/graph", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			srv.handleGetGraph(w, r)
		case http.MethodPost:
			srv.handlePostGraph(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	page, err := assetsFS.ReadFile("assets/index.html")
	if err != nil {
		return "", fmt.Errorf("embedded page: %w", err)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("listen on port %d: %w", port, err)
	}

	go http.Serve(ln, mux)

	addr := fmt.Sprintf("http://localhost:%d", port)
	return addr, nil
}
