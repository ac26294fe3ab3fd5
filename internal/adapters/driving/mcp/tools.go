package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"path to a pdf, docx or txt file on the server machine"`
}

// DocumentOutput describes one document.
type DocumentOutput struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	Handle    string `json:"handle,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Chunks    int    `json:"chunks"`
	Words     int    `json:"words"`
	CreatedAt string `json:"created_at"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Document DocumentOutput `json:"document"`
	Message  string         `json:"message"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	K        int    `json:"k,omitempty" jsonschema:"number of chunks to retrieve (default 3)"`
	Save     bool   `json:"save,omitempty" jsonschema:"persist the exchange to the saved history"`
}

// SourceOutput is one cited chunk.
type SourceOutput struct {
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Preview    string  `json:"preview"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// GenerateInput is the input schema for the generate_questions tool.
type GenerateInput struct {
	DocumentID string `json:"document_id,omitempty" jsonschema:"document to question; defaults to the current document"`
	Type       string `json:"type,omitempty" jsonschema:"factual, analytical, inferential, evaluative or mixed (default)"`
}

// QuestionOutput is one generated question. Number is 1-based.
type QuestionOutput struct {
	Number     int    `json:"number"`
	Type       string `json:"type"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
}

// GenerateOutput is the output schema for the generate_questions tool.
type GenerateOutput struct {
	Questions []QuestionOutput `json:"questions"`
	Warning   string           `json:"warning,omitempty"`
}

// EvaluateInput is the input schema for the evaluate_answer tool.
type EvaluateInput struct {
	Number int    `json:"number" jsonschema:"1-based number of the question being answered"`
	Answer string `json:"answer" jsonschema:"the user's answer"`
}

// ListInput is the empty input schema for the list_documents tool.
type ListInput struct{}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Extract, summarise, chunk and index a document from a file path",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the indexed documents and cite the retrieved chunks",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_questions",
		Description: "Generate comprehension questions about a document",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_answer",
		Description: "Score an answer to a generated question out of 10",
	}, s.handleEvaluate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List every ingested document",
	}, s.handleList)
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, IngestOutput{}, errors.New(domain.MsgNoFile)
	}

	upload, err := filesystem.LoadUpload(input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("loading document: %w", err)
	}

	result := s.ports.Documents.Ingest(ctx, upload)
	if !result.OK() {
		logger.Debug("mcp ingest %s: %v", input.Path, result.Err)
		return nil, IngestOutput{}, errors.New(result.Message)
	}

	return nil, IngestOutput{
		Document: documentOutput(result.Document),
		Message:  result.Message,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.QA.Ask(ctx, input.Question, input.K)
	if err != nil {
		logger.Debug("mcp ask: %v", err)
		return nil, AskOutput{}, errors.New(domain.UserMessage(err))
	}

	if input.Save {
		if err := s.ports.QA.Save(ctx); err != nil {
			logger.Warn("saving history: %v", err)
		}
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Filename:   src.Chunk.Filename(),
			ChunkIndex: src.Chunk.ChunkIndex(),
			Score:      src.Chunk.Score,
			Preview:    src.Preview,
		}
	}
	return nil, output, nil
}

func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	qtype := domain.QuestionType(strings.ToLower(strings.TrimSpace(input.Type)))
	if qtype == "" {
		qtype = domain.QuestionMixed
	}
	if !qtype.IsValid() {
		return nil, GenerateOutput{}, fmt.Errorf("unknown question type %q", input.Type)
	}

	if input.DocumentID != "" {
		if _, err := s.ports.Documents.Open(ctx, input.DocumentID); err != nil {
			logger.Debug("mcp open %s: %v", input.DocumentID, err)
			return nil, GenerateOutput{}, errors.New(domain.UserMessage(err))
		}
	}

	questions, err := s.ports.Challenge.Generate(ctx, input.DocumentID, qtype)
	if len(questions) == 0 {
		logger.Debug("mcp generate: %v", err)
		return nil, GenerateOutput{}, errors.New(domain.MsgQuestionsFailed)
	}

	output := GenerateOutput{Questions: make([]QuestionOutput, len(questions))}
	if err != nil {
		output.Warning = "Some question types could not be generated."
	}
	for i, q := range questions {
		output.Questions[i] = QuestionOutput{
			Number:     i + 1,
			Type:       q.Type.String(),
			Text:       q.Text,
			Difficulty: string(q.Difficulty),
		}
	}
	return nil, output, nil
}

func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, domain.Evaluation, error) {
	eval, err := s.ports.Challenge.Evaluate(ctx, input.Number-1, input.Answer)
	if err != nil {
		return nil, domain.Evaluation{}, fmt.Errorf("question %d: %w", input.Number, err)
	}
	return nil, eval, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.ports.Documents.Catalogue(ctx)
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	output := ListOutput{Documents: make([]DocumentOutput, len(docs)), Count: len(docs)}
	for i := range docs {
		output.Documents[i] = documentOutput(&docs[i])
		output.Documents[i].Summary = ""
	}
	return nil, output, nil
}

func documentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:        doc.ID,
		Filename:  doc.Filename,
		Format:    doc.Format.String(),
		Handle:    doc.Handle,
		Summary:   doc.Summary,
		Chunks:    doc.Metadata.TotalChunks,
		Words:     doc.Metadata.WordCount,
		CreatedAt: doc.CreatedAt.Format(domain.TimestampLayout),
	}
}
