// Package compiler parses the .nsdl (NodeSpace Definition Language) text
// format into a live nodenet, then persists it as a metadata sidecar plus
// archive — the same pair nodenet.Load reads.
//
// .nsdl is a small line-oriented DSL: one directive per line, with an
// `iterate var start end { ... }` block for batch declarations, in exactly
// the block/iterate idiom this codebase's compiler front end already used
// for its kernel-payload DSL (tokenize line, dispatch on the first field,
// expand iterate blocks by substituting the loop variable and re-dispatching
// each expanded line).
//
//	nodespace <name> <parent>
//	node <type> <nodespace> [name=<name>] [uid=<uid>] [datasource=<key>] [datatarget=<key>]
//	link <source-uid> <source-gate> <target-uid> <target-slot> <weight> [certainty]
//	iterate <var> <start> <end> { ... }
package compiler

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nnengine/nodenet/config"
	"github.com/nnengine/nodenet/core"
	"github.com/nnengine/nodenet/nodenet"
)

// Compile reads an .nsdl source file, builds a nodenet from it, and writes
// metaPath/archivePath. uid/name identify the produced nodenet.
func Compile(src, metaPath, archivePath, uid, name string, cfg *config.Config) error {
	text, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	n, err := buildFromSource(text, uid, name, cfg)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", src, err)
	}
	return n.Save(metaPath, archivePath)
}

func buildFromSource(text []byte, uid, name string, cfg *config.Config) (*nodenet.Nodenet, error) {
	n, err := nodenet.New(nodenet.Options{UID: uid, Name: name, Config: cfg})
	if err != nil {
		return nil, err
	}

	p := &parser{net: n, nodespaces: map[string]core.NodespaceId{"root": core.Root}}
	lines := strings.Split(string(text), "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		next, err := p.parseLine(lines, i)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		i = next
	}
	return n, nil
}

// parser holds the incremental build state: the nodenet under construction
// and a table mapping the DSL's short nodespace names to the uids New
// nodespaces are actually allocated with.
type parser struct {
	net        *nodenet.Nodenet
	nodespaces map[string]core.NodespaceId
}

func (p *parser) parseLine(lines []string, idx int) (int, error) {
	line := strings.TrimSpace(lines[idx])
	fields := strings.Fields(line)

	switch fields[0] {
	case "iterate":
		return p.parseIterateBlock(lines, idx, fields)
	default:
		return idx, p.dispatch(line, fields)
	}
}

func (p *parser) dispatch(line string, fields []string) error {
	switch fields[0] {
	case "nodespace":
		return p.parseNodespace(fields)
	case "node":
		return p.parseNode(fields)
	case "link":
		return p.parseLink(fields)
	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}
}

func (p *parser) parseNodespace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("nodespace needs <name> <parent>, got %q", strings.Join(fields, " "))
	}
	name, parentName := fields[1], fields[2]
	parent, ok := p.nodespaces[parentName]
	if !ok {
		return fmt.Errorf("nodespace %q references undefined parent %q", name, parentName)
	}
	uid, err := p.net.CreateNodespace(parent)
	if err != nil {
		return err
	}
	id, _ := core.ParseNodespaceUid(uid)
	p.nodespaces[name] = id
	return nil
}

func (p *parser) parseNode(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("node needs <type> <nodespace>, got %q", strings.Join(fields, " "))
	}
	def, err := p.net.Types.ByName(capitalize(fields[1]))
	if err != nil {
		return err
	}
	ns, ok := p.nodespaces[fields[2]]
	if !ok {
		return fmt.Errorf("node references undefined nodespace %q", fields[2])
	}

	params := nodenet.CreateNodeParams{}
	for _, kv := range fields[3:] {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid node attribute %q, want key=value", kv)
		}
		switch key {
		case "name":
			params.Name = val
		case "uid":
			params.Uid = val
		case "datasource":
			params.DataSource = val
		case "datatarget":
			params.DataTarget = val
		default:
			return fmt.Errorf("unknown node attribute %q", key)
		}
	}

	_, err = p.net.CreateNode(def.Type, ns, params)
	return err
}

func (p *parser) parseLink(fields []string) error {
	if len(fields) < 6 {
		return fmt.Errorf("link needs <source> <gate> <target> <slot> <weight> [certainty], got %q", strings.Join(fields, " "))
	}
	weight, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return fmt.Errorf("invalid weight %q: %w", fields[5], err)
	}
	certainty := 1.0
	if len(fields) > 6 {
		certainty, err = strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return fmt.Errorf("invalid certainty %q: %w", fields[6], err)
		}
	}
	_, err = p.net.CreateLink(fields[1], fields[2], fields[3], fields[4], weight, certainty)
	return err
}

func (p *parser) parseIterateBlock(lines []string, idx int, fields []string) (int, error) {
	if len(fields) < 4 {
		return idx, fmt.Errorf("invalid iterate spec: %s", strings.Join(fields, " "))
	}
	varName := fields[1]
	start, err := strconv.Atoi(fields[2])
	if err != nil {
		return idx, fmt.Errorf("invalid iterate start %q: %w", fields[2], err)
	}
	end, err := strconv.Atoi(fields[3])
	if err != nil {
		return idx, fmt.Errorf("invalid iterate end %q: %w", fields[3], err)
	}

	blockStart := idx
	if !strings.HasSuffix(strings.Join(fields, " "), "{") {
		blockStart++
		for blockStart < len(lines) && strings.TrimSpace(lines[blockStart]) == "" {
			blockStart++
		}
		if blockStart >= len(lines) || strings.TrimSpace(lines[blockStart]) != "{" {
			return idx, fmt.Errorf("missing '{' after iterate")
		}
	}

	block, blockEnd, err := collectBlockLines(lines, blockStart)
	if err != nil {
		return idx, err
	}

	for v := start; v <= end; v++ {
		for _, line := range block {
			expanded := expandVariable(line, varName, v)
			if err := p.dispatch(expanded, strings.Fields(expanded)); err != nil {
				return idx, fmt.Errorf("iterate expansion error: %w", err)
			}
		}
	}
	return blockEnd, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func collectBlockLines(lines []string, startIdx int) ([]string, int, error) {
	var block []string
	i := startIdx + 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "}" {
			return block, i, nil
		}
		if line != "" && !strings.HasPrefix(line, "#") {
			block = append(block, line)
		}
		i++
	}
	return nil, i, fmt.Errorf("unterminated iterate block")
}

func expandVariable(line, varName string, value int) string {
	fields := strings.Fields(line)
	for i, field := range fields {
		if field == varName {
			fields[i] = strconv.Itoa(value)
		}
	}
	return strings.Join(fields, " ")
}

