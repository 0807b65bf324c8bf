package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Kush-Singh-26/autopost/builder/llm"
)

// ErrNotScripted is returned by FakeGenerator when no rule matches.
var ErrNotScripted = errors.New("fake generator: no scripted reply")

type rule struct {
	contains string
	reply    string
	image    *llm.Image
	err      error
}

// FakeGenerator is a scripted llm.Generator. Rules are matched in the order
// they were added against the system and user prompt text.
type FakeGenerator struct {
	mu       sync.Mutex
	complete []rule
	browse   []rule
	images   []rule
	calls    []string
}

func NewFakeGenerator() *FakeGenerator {
	return &FakeGenerator{}
}

// OnComplete scripts Complete for prompts containing substr.
func (f *FakeGenerator) OnComplete(substr, reply string, err error) *FakeGenerator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complete = append(f.complete, rule{contains: substr, reply: reply, err: err})
	return f
}

// OnBrowse scripts Browse for prompts containing substr.
func (f *FakeGenerator) OnBrowse(substr, reply string, err error) *FakeGenerator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.browse = append(f.browse, rule{contains: substr, reply: reply, err: err})
	return f
}

// OnImage scripts GenerateImage for prompts containing substr.
func (f *FakeGenerator) OnImage(substr string, img *llm.Image, err error) *FakeGenerator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, rule{contains: substr, image: img, err: err})
	return f
}

// Calls returns "complete:", "browse:" or "image:" prefixed prompts in call order.
func (f *FakeGenerator) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount counts calls whose record starts with prefix.
func (f *FakeGenerator) CallCount(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *FakeGenerator) match(kind string, rules []rule, text string) (rule, bool) {
	f.calls = append(f.calls, kind+":"+text)
	for _, r := range rules {
		if strings.Contains(text, r.contains) {
			return r, true
		}
	}
	return rule{}, false
}

func (f *FakeGenerator) Complete(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.match("complete", f.complete, req.System+"\n"+req.Prompt)
	if !ok {
		return "", ErrNotScripted
	}
	return r.reply, r.err
}

func (f *FakeGenerator) Browse(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.match("browse", f.browse, prompt)
	if !ok {
		return "", ErrNotScripted
	}
	return r.reply, r.err
}

func (f *FakeGenerator) GenerateImage(ctx context.Context, prompt string) (*llm.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.match("image", f.images, prompt)
	if !ok {
		return nil, ErrNotScripted
	}
	return r.image, r.err
}
