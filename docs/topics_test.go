package docs

import (
	"bufio"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/etnz/bookkeeping/config"
	"github.com/etnz/bookkeeping/reader"
	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md exists, and every topic is listed.
	readme, err := Topic("readme")
	if err != nil {
		t.Fatal(err)
	}
	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(strings.NewReader(readme))
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	for _, topic := range listed {
		if _, err := Topic(topic); err != nil {
			t.Errorf("Topic(%q) error = %v", topic, err)
		}
	}

	all, err := All()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(all, ",") != strings.Join(listed, ",") {
		t.Errorf("All() = %v, readme lists %v", all, listed)
	}

	if _, err := Topic("nope"); err == nil {
		t.Error("Topic(\"nope\") error = nil, want not found")
	}
	got, err := Topics("*")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "# Transaction files") || !strings.Contains(got, "# Valuation") {
		t.Errorf("Topics(\"*\") is missing topics")
	}
}

// Block is a fenced code block of a topic.
type Block struct {
	Lang    string
	Content string
	Topic   string
	Line    int
}

// parseBlocks returns the fenced code blocks of a topic.
func parseBlocks(t *testing.T, topic string) []Block {
	t.Helper()
	doc, err := Topic(topic)
	if err != nil {
		t.Fatal(err)
	}
	content := []byte(doc)
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, Block{
			Lang:    string(fcb.Language(content)),
			Content: b.String(),
			Topic:   topic,
			Line:    strings.Count(doc[:fcb.Info.Segment.Start], "\n") + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

func TestExamples(t *testing.T) {
	// Documented examples are read by the code they document.
	all, err := All()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, topic := range all {
		for _, block := range parseBlocks(t, topic) {
			switch block.Lang {
			case "csv", "markdown":
				count++
				name := "example." + map[string]string{"csv": "csv", "markdown": "md"}[block.Lang]
				txs, err := reader.New().Read(context.Background(), name, strings.NewReader(block.Content))
				if err != nil {
					t.Errorf("%s.md:%d: %v", block.Topic, block.Line, err)
				} else if len(txs) == 0 {
					t.Errorf("%s.md:%d: no transactions", block.Topic, block.Line)
				}
			case "toml":
				count++
				cfg := config.Default()
				if err := toml.Unmarshal([]byte(block.Content), cfg); err != nil {
					t.Errorf("%s.md:%d: %v", block.Topic, block.Line, err)
					continue
				}
				if err := cfg.Validate(); err != nil {
					t.Errorf("%s.md:%d: %v", block.Topic, block.Line, err)
				}
			}
		}
	}
	if count < 4 {
		t.Errorf("found %d examples, want at least 4", count)
	}
}
