package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/rag-client/internal/entity"
	"github.com/futig/rag-client/internal/usecase/chat"
)

const helpText = `Commands:
  /upload PATH           upload a document for indexing
  /export FORMAT [PATH]  save the transcript (md, pdf or docx)
  /help                  show this message
  /quit                  exit
Any other line is sent as a question.`

type ChatUsecase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	Upload(ctx context.Context, sessionID string, file *entity.FileData) (*entity.Notice, error)
	Ask(ctx context.Context, sessionID, query string) (*entity.Notice, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) (*entity.ExportedFile, error)
}

// Console drives one chat session from a line-oriented terminal.
type Console struct {
	uc        ChatUsecase
	in        *bufio.Reader
	out       io.Writer
	sessionID string
}

func NewConsole(uc ChatUsecase, in io.Reader, out io.Writer) *Console {
	return &Console{
		uc:  uc,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Start opens the session all later calls run against.
func (c *Console) Start(ctx context.Context) error {
	session, err := c.uc.StartSession(ctx)
	if err != nil {
		return err
	}
	c.sessionID = session.ID
	return nil
}

// Upload reads the file at path and runs the upload flow.
// An empty path is the "nothing selected" case.
func (c *Console) Upload(ctx context.Context, path string) error {
	var file *entity.FileData
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			c.print(&entity.Notice{Kind: entity.NoticeError, Text: fmt.Sprintf("Cannot read %s: %v", path, err)})
			return nil
		}
		file = &entity.FileData{Filename: filepath.Base(path), Content: content}
	}

	notice, err := c.uc.Upload(ctx, c.sessionID, file)
	if err != nil {
		return err
	}
	c.print(notice)
	return nil
}

func (c *Console) Ask(ctx context.Context, query string) error {
	notice, err := c.uc.Ask(ctx, c.sessionID, query)
	if err != nil {
		return err
	}
	c.print(notice)
	return nil
}

// Export writes the transcript to path, or to its default name when path is empty.
func (c *Console) Export(ctx context.Context, format, path string) error {
	f, err := entity.ParseResultFormat(format)
	if err != nil {
		c.print(&entity.Notice{Kind: entity.NoticeWarning, Text: fmt.Sprintf("Unknown format %q. Use md, pdf or docx.", format)})
		return nil
	}

	file, err := c.uc.ExportTranscript(ctx, c.sessionID, f)
	if errors.Is(err, entity.ErrEmptyTranscript) {
		c.print(&entity.Notice{Kind: entity.NoticeInfo, Text: chat.MsgEmptyTranscript})
		return nil
	}
	if err != nil {
		return err
	}

	if path == "" {
		path = file.Filename
	}
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		c.print(&entity.Notice{Kind: entity.NoticeError, Text: fmt.Sprintf("Cannot write %s: %v", path, err)})
		return nil
	}

	c.print(&entity.Notice{Kind: entity.NoticeSuccess, Text: "Transcript saved to " + path})
	return nil
}

type readResult struct {
	line string
	err  error
}

// Run reads lines until EOF, /quit or ctx is done. Lines are sent as
// typed, so an empty line is an empty question.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Document Q&A. Type /help for commands.")

	done := make(chan struct{})
	defer close(done)

	lines := make(chan readResult)
	go func() {
		for {
			line, err := c.in.ReadString('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		fmt.Fprint(c.out, "> ")

		var r readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case r = <-lines:
		}

		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return fmt.Errorf("read input: %w", r.err)
		}
		eof := r.err != nil
		if eof && r.line == "" {
			fmt.Fprintln(c.out)
			return nil
		}

		quit, err := c.dispatch(ctx, strings.TrimRight(r.line, "\r\n"))
		if err != nil {
			return err
		}
		if quit || eof {
			return nil
		}
	}
}

func (c *Console) dispatch(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, "/") {
		return false, c.Ask(ctx, line)
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(c.out, helpText)
		return false, nil
	case "/upload":
		path := strings.TrimSpace(strings.TrimPrefix(line, "/upload"))
		return false, c.Upload(ctx, path)
	case "/export":
		var format, path string
		if len(fields) > 1 {
			format = fields[1]
		}
		if len(fields) > 2 {
			path = fields[2]
		}
		return false, c.Export(ctx, format, path)
	default:
		c.print(&entity.Notice{Kind: entity.NoticeWarning, Text: fmt.Sprintf("Unknown command %s. Type /help.", fields[0])})
		return false, nil
	}
}

func (c *Console) print(n *entity.Notice) {
	fmt.Fprintf(c.out, "%s %s\n", marker(n.Kind), n.Text)
}

func marker(kind entity.NoticeKind) string {
	switch kind {
	case entity.NoticeSuccess:
		return "✅"
	case entity.NoticeWarning:
		return "⚠️"
	case entity.NoticeError:
		return "❌"
	default:
		return "ℹ️"
	}
}
