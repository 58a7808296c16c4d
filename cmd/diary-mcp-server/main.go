// diary-mcp-server exposes the pet diary collection to MCP clients over
// stdin/stdout, so an LLM assistant can browse entries. It opens the same
// JSON store as the HTTP server, read-only.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pet-diary/internal/config"
	"pet-diary/internal/diary"
)

// ListDiariesParams параметры инструмента list_diaries
type ListDiariesParams struct {
	PetName    string `json:"pet_name,omitempty" mcp:"only return entries for this pet name"`
	MaxEntries int    `json:"max_entries,omitempty" mcp:"maximum number of entries to return (default: 10, max: 50)"`
}

// GetDiaryParams параметры инструмента get_diary
type GetDiaryParams struct {
	ID string `json:"id" mcp:"diary entry id"`
}

type DiaryMCPServer struct {
	store diary.Store
}

func (s *DiaryMCPServer) ListDiaries(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListDiariesParams]) (*mcp.CallToolResultFor[any], error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("❌ Failed to read diary store: %v", err)},
			},
		}, nil
	}

	max := params.Arguments.MaxEntries
	if max <= 0 {
		max = 10
	}
	if max > 50 {
		max = 50
	}

	var b strings.Builder
	count := 0
	for _, r := range records {
		if params.Arguments.PetName != "" && r.PetName != params.Arguments.PetName {
			continue
		}
		if count >= max {
			break
		}
		fmt.Fprintf(&b, "📔 %s | %s | %s | %s\n", r.ID, r.CreatedAt.Format("2006-01-02"), r.PetName, r.Author)
		count++
	}
	if count == 0 {
		b.WriteString("No diary entries found")
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: b.String()},
		},
	}, nil
}

func (s *DiaryMCPServer) GetDiary(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[GetDiaryParams]) (*mcp.CallToolResultFor[any], error) {
	records, err := s.store.ReadAll()
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("❌ Failed to read diary store: %v", err)},
			},
		}, nil
	}

	for _, r := range records {
		if r.ID != params.Arguments.ID {
			continue
		}
		text := fmt.Sprintf("📔 %s (%s)\nAuthor: %s\nPet: %s\nImage: %s\n\n%s",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Author, r.PetName, r.ImageURL, r.Content)
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, nil
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("❌ Diary entry %s not found", params.Arguments.ID)},
		},
	}, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := diary.NewFileStore(cfg.DataFilePath)
	if err != nil {
		log.Fatalf("❌ Failed to open diary store: %v", err)
	}

	diaryServer := &DiaryMCPServer{store: store}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pet-diary-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_diaries",
		Description: "Lists pet diary entries, newest data file order, optionally filtered by pet name",
	}, diaryServer.ListDiaries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_diary",
		Description: "Returns one pet diary entry by id, including its full text",
	}, diaryServer.GetDiary)

	log.Printf("📋 Registered diary MCP tools: list_diaries, get_diary")
	log.Printf("🔗 Starting diary MCP server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Diary MCP Server failed: %v", err)
	}
}
