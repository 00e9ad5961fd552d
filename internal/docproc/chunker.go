package docproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// ChunkText splits text into chunks of at most chunkSize characters on
// sentence boundaries. Consecutive chunks share trailing sentences worth up
// to chunkOverlap characters so context survives across boundaries. A single
// sentence longer than chunkSize is emitted as its own chunk.
func (p *DocumentProcessor) ChunkText(text string) []string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	size := 0

	for _, sentence := range sentences {
		sep := 0
		if len(current) > 0 {
			sep = 1
		}
		if size+sep+len(sentence) > p.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current, size = p.overlapTail(current, len(sentence))
			sep = 0
			if len(current) > 0 {
				sep = 1
			}
		}
		current = append(current, sentence)
		size += sep + len(sentence)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// overlapTail seeds the next chunk with whole trailing sentences of the
// previous one, spending at most chunkOverlap characters. The seed is then
// shrunk from the front until the incoming sentence still fits under
// chunkSize, which keeps every emitted chunk within the size bound.
func (p *DocumentProcessor) overlapTail(prev []string, incoming int) ([]string, int) {
	if p.chunkOverlap <= 0 {
		return nil, 0
	}

	var tail []string
	size := 0
	for i := len(prev) - 1; i >= 0; i-- {
		add := len(prev[i])
		if len(tail) > 0 {
			add++
		}
		if size+add > p.chunkOverlap {
			break
		}
		tail = append([]string{prev[i]}, tail...)
		size += add
	}

	for len(tail) > 0 && size+1+incoming > p.chunkSize {
		dropped := len(tail[0])
		tail = tail[1:]
		size -= dropped
		if len(tail) > 0 {
			size--
		}
	}
	if len(tail) == 0 {
		return nil, 0
	}
	return tail, size
}

// splitSentences breaks normalized text at terminal punctuation. A trailing
// fragment without terminal punctuation is kept as a final sentence.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, m := range sentenceRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[m[0]:m[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = m[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
