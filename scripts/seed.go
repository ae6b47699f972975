// Command seed fills a running API with demo users and todos.
//
//	go run ./scripts -users 3 -todos 5
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler/dto"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/model"
)

type output struct {
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email"`
	Todos  []uuid.UUID `json:"todo_ids"`
}

func main() {
	var (
		baseURL = flag.String("base-url", envOrDefault("API_BASE_URL", "http://localhost:8080"), "API base URL")
		users   = flag.Int("users", 3, "Number of users to create")
		todos   = flag.Int("todos", 5, "Todos per user")
		domain  = flag.String("domain", "example.com", "Email domain for generated users")
		format  = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *users < 1 || *todos < 0 {
		fmt.Fprintln(os.Stderr, "users must be at least 1 and todos non-negative")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	base := strings.TrimRight(*baseURL, "/")
	priorities := model.Priorities
	run := time.Now().Unix()

	results := make([]output, 0, *users)
	for i := 0; i < *users; i++ {
		var user dto.UserResponse
		err := post(ctx, client, base+"/users", dto.CreateUserRequest{
			Email: fmt.Sprintf("seed-%d-%d@%s", run, i, *domain),
			Name:  fmt.Sprintf("Seed User %d", i+1),
		}, &user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create user: %v\n", err)
			os.Exit(1)
		}

		out := output{UserID: user.ID, Email: user.Email}
		for j := 0; j < *todos; j++ {
			priority := priorities[j%len(priorities)]
			var todo dto.TodoResponse
			err := post(ctx, client, base+"/todos", dto.CreateTodoRequest{
				OwnerID:   user.ID,
				Title:     fmt.Sprintf("Task %d for %s", j+1, user.Name),
				Completed: dto.Some(false),
				Priority:  dto.Some(priority),
			}, &todo)
			if err != nil {
				fmt.Fprintf(os.Stderr, "create todo: %v\n", err)
				os.Exit(1)
			}
			out.Todos = append(out.Todos, todo.ID)
		}
		results = append(results, out)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
			os.Exit(1)
		}
	default:
		for _, r := range results {
			fmt.Printf("%s\t%s\t%d todos\n", r.UserID, r.Email, len(r.Todos))
		}
	}
}

// post sends body as JSON and decodes a 201 response into dst.
func post(ctx context.Context, client *http.Client, url string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr dto.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code != "" {
			return fmt.Errorf("%s: %s (%s)", resp.Status, apiErr.Error, apiErr.Code)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
