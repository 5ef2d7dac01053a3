// Package extract turns uploaded resume files into plain text.
//
// Extraction is best effort: structured parsers are tried first according to
// the file extension, and any failure (including a parser panic) degrades to a
// lenient UTF-8 decode of the raw bytes. Extract never returns an error.
package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Method string

const (
	MethodPDF  Method = "pdf"
	MethodDOCX Method = "docx"
	MethodRaw  Method = "raw"
)

// Result is the text produced for one file and the strategy that produced it.
// Fallback is set when a structured strategy failed and the raw decode was used.
type Result struct {
	Text     string
	Method   Method
	Fallback bool
}

type strategy struct {
	method Method
	run    func(data []byte) (string, error)
}

func (s strategy) attempt(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%s parser panicked: %v", s.method, r)
		}
	}()
	return s.run(data)
}

// strategiesFor returns the structured strategies to try, in order, for a
// filename. The raw decode is not part of the list; it always runs last.
func strategiesFor(filename string) []strategy {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return []strategy{{method: MethodPDF, run: extractPDFText}}
	case strings.HasSuffix(name, ".docx"):
		return []strategy{{method: MethodDOCX, run: extractDocxText}}
	default:
		return nil
	}
}

type Option func(*Extractor)

// WithObserver registers a callback invoked with every extraction result.
func WithObserver(fn func(Result)) Option {
	return func(e *Extractor) {
		e.observe = fn
	}
}

type Extractor struct {
	logger  *zap.Logger
	observe func(Result)
}

func New(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{logger: logger.Named("extract")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Extract(data []byte, filename string) Result {
	fallback := false
	for _, s := range strategiesFor(filename) {
		text, err := s.attempt(data)
		if err == nil {
			return e.finish(Result{Text: text, Method: s.method})
		}
		fallback = true
		e.logger.Warn("text extraction failed, falling back to raw decode",
			zap.String("method", string(s.method)),
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
	return e.finish(Result{Text: DecodeLenient(data), Method: MethodRaw, Fallback: fallback})
}

func (e *Extractor) finish(res Result) Result {
	if e.observe != nil {
		e.observe(res)
	}
	return res
}

// Text extracts with a silent extractor.
func Text(data []byte, filename string) string {
	return New(nil).Extract(data, filename).Text
}

// DecodeLenient decodes data as UTF-8, dropping invalid byte sequences.
func DecodeLenient(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
