package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// StepMemory remembers the tool calls of one instruction and detects
// loops, both a single call repeated back to back and a repeating pair
// of calls.
type StepMemory struct {
	lastKey       string
	repeatCount   int
	loopThreshold int

	recentKeys    []string
	maxRecent     int
	patternLen    int
	patternCounts map[string]int

	loopTriggered bool
}

func NewStepMemory(loopThreshold int) *StepMemory {
	if loopThreshold <= 1 {
		loopThreshold = 2
	}
	return &StepMemory{
		loopThreshold: loopThreshold,
		maxRecent:     10,
		patternLen:    2,
		patternCounts: make(map[string]int),
	}
}

// callKey identifies a call by name and compacted arguments. Whitespace
// inside argument values is kept.
func callKey(call openai.ToolCall) string {
	args := call.Function.Arguments
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(args)); err == nil {
		args = buf.String()
	}
	return call.Function.Name + "|" + args
}

// Add records an executed call.
func (m *StepMemory) Add(call openai.ToolCall) {
	key := callKey(call)

	if key == m.lastKey {
		m.repeatCount++
	} else {
		m.lastKey = key
		m.repeatCount = 1
	}

	m.recentKeys = append(m.recentKeys, key)
	if len(m.recentKeys) > m.maxRecent {
		m.recentKeys = m.recentKeys[len(m.recentKeys)-m.maxRecent:]
	}

	if len(m.recentKeys) >= m.patternLen {
		seq := m.recentKeys[len(m.recentKeys)-m.patternLen:]
		if seq[0] != seq[1] {
			m.patternCounts[strings.Join(seq, "->")]++
		}
	}
}

// ShouldBlock reports whether call would continue a loop, with a note for
// the model explaining why it was not executed.
func (m *StepMemory) ShouldBlock(call openai.ToolCall) (bool, string) {
	key := callKey(call)

	if key == m.lastKey && m.repeatCount >= m.loopThreshold {
		return true, fmt.Sprintf(
			"blocked: %s has already run %d times in a row. Do not repeat it; try a different step or report the failure.",
			call.Function.Name, m.repeatCount)
	}

	if n := len(m.recentKeys); n > 0 && m.recentKeys[n-1] != key {
		pattern := m.recentKeys[n-1] + "->" + key
		if m.patternCounts[pattern] >= m.loopThreshold {
			return true, fmt.Sprintf(
				"blocked: the sequence %s has already repeated %d times. Do not repeat it; try a different step or report the failure.",
				pattern, m.patternCounts[pattern])
		}
	}

	return false, ""
}

func (m *StepMemory) MarkLoopTriggered() {
	m.loopTriggered = true
}

func (m *StepMemory) LoopTriggered() bool {
	return m.loopTriggered
}
