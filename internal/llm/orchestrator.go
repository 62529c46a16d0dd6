package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Completer is the call surface the orchestrator needs from the provider
// chain.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Request carries everything known about a story before drafting.
type Request struct {
	Title        string
	TweetAr      string
	TweetEn      string
	Research     string
	Category     string
	SpeakerName  string
	SpeakerTitle string
}

// Draft is a finished bilingual article. Degraded is set when either body
// fell back to the origin text.
type Draft struct {
	TitleAr  string
	TitleEn  string
	BodyAr   string
	BodyEn   string
	Degraded bool
}

// Orchestrator turns a request into a bilingual draft. It never fails: when
// every provider is down the bodies degrade to the origin text.
type Orchestrator struct {
	chain Completer
}

// NewOrchestrator wraps a provider chain.
func NewOrchestrator(chain Completer) *Orchestrator {
	return &Orchestrator{chain: chain}
}

const arabicSystemPrompt = `أنت محرر أخبار محترف في صحيفة قطرية رقمية.
اكتب مقالاً إخبارياً بالعربية الفصحى من 400 إلى 600 كلمة: مقدمة تلخص الخبر،
ثم السياق، ثم التفاصيل، ثم خاتمة تربط الخبر بالمنطقة.
السطر الأول هو العنوان فقط، ثم سطر فارغ، ثم نص المقال.
لا تستخدم أي تنسيق ماركداون ولا عبارات مثل "في الختام" أو "جدير بالذكر".`

const englishSystemPrompt = `You are a news editor at a Qatari digital newspaper.
Write a 400-600 word news article in English: a lede summarizing the story,
then context, then details, then a conclusion tying the story to the region.
The first line is the headline only, then a blank line, then the article body.
Use no markdown formatting and avoid stock transitions like "In conclusion".`

const editSystemPrompt = `You are a copy editor. Tighten the article below without
changing its facts or language. Keep the first line as the headline. Return
only the edited article, no commentary.`

const headlineSystemPrompt = `You write news headlines. Given an article body,
return a single English headline of at most 12 words, with no quotation marks
and no trailing period. Return only the headline.`

// Generate drafts both languages concurrently, runs the edit pass, and
// repairs an untranslated English headline.
func (o *Orchestrator) Generate(ctx context.Context, req Request) *Draft {
	draft := &Draft{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		draft.TitleAr, draft.BodyAr = o.draftLanguage(ctx, arabicSystemPrompt, req)
	}()
	go func() {
		defer wg.Done()
		draft.TitleEn, draft.BodyEn = o.draftLanguage(ctx, englishSystemPrompt, req)
	}()
	wg.Wait()

	// each language degrades to its own origin text
	if draft.BodyAr == "" {
		draft.TitleAr = req.Title
		draft.BodyAr = originText(req.TweetAr, req.Title)
		draft.Degraded = true
	}
	if draft.BodyEn == "" {
		draft.TitleEn = req.Title
		draft.BodyEn = originText(req.TweetEn, req.Title)
		draft.Degraded = true
	}

	if !draft.Degraded {
		o.editPass(ctx, draft)
	}

	if ContainsArabic(draft.TitleEn) {
		o.repairHeadline(ctx, draft)
	}

	return draft
}

// draftLanguage produces one language's draft. Any failure yields empty
// strings; the caller decides how to degrade.
func (o *Orchestrator) draftLanguage(ctx context.Context, system string, req Request) (title, body string) {
	out, err := o.chain.Complete(ctx, system, buildUserPrompt(req))
	if err != nil {
		log.Printf("⚠️ Draft failed: %v", err)
		return "", ""
	}
	return parseDraft(out)
}

// editPass cleans both drafts concurrently after the drafting barrier. A
// failed edit keeps the original draft.
func (o *Orchestrator) editPass(ctx context.Context, draft *Draft) {
	var wg sync.WaitGroup
	for _, d := range []struct {
		title *string
		body  *string
	}{
		{&draft.TitleAr, &draft.BodyAr},
		{&draft.TitleEn, &draft.BodyEn},
	} {
		wg.Add(1)
		go func(title, body *string) {
			defer wg.Done()
			out, err := o.chain.Complete(ctx, editSystemPrompt, *title+"\n\n"+*body)
			if err != nil {
				log.Printf("⚠️ Edit pass failed, keeping draft: %v", err)
				return
			}
			if t, b := parseDraft(out); t != "" && b != "" {
				*title = t
				*body = b
			}
		}(d.title, d.body)
	}
	wg.Wait()
}

// repairHeadline asks for a fresh English headline when the drafted one still
// carries Arabic script. Failure keeps the existing title.
func (o *Orchestrator) repairHeadline(ctx context.Context, draft *Draft) {
	out, err := o.chain.Complete(ctx, headlineSystemPrompt, draft.BodyEn)
	if err != nil {
		log.Printf("⚠️ Headline repair failed, keeping title: %v", err)
		return
	}
	if headline := CleanHeadline(out); headline != "" && !ContainsArabic(headline) {
		draft.TitleEn = headline
	}
}

func buildUserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Story: %s\n", req.Title)
	if req.SpeakerName != "" {
		fmt.Fprintf(&b, "Speaker: %s", req.SpeakerName)
		if req.SpeakerTitle != "" {
			fmt.Fprintf(&b, " (%s)", req.SpeakerTitle)
		}
		b.WriteString("\n")
	}
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", req.Category)
	}
	if req.TweetAr != "" {
		fmt.Fprintf(&b, "\nOriginal statement (Arabic):\n%s\n", req.TweetAr)
	}
	if req.TweetEn != "" {
		fmt.Fprintf(&b, "\nOriginal statement (English):\n%s\n", req.TweetEn)
	}
	if req.Research != "" {
		fmt.Fprintf(&b, "\nBackground:\n%s\n", req.Research)
	}
	return b.String()
}

// parseDraft splits model output into headline and body: first non-empty
// line is the headline, the rest is the body.
func parseDraft(out string) (title, body string) {
	out = Sanitize(out)
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		title = CleanHeadline(line)
		body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		break
	}
	if body == "" {
		// single-block output: keep it as the body rather than lose it
		return "", out
	}
	return title, body
}

func originText(tweet, title string) string {
	if strings.TrimSpace(tweet) != "" {
		return tweet
	}
	return title
}
