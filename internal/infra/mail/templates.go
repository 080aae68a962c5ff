package mail

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// ErrTemplateNotFound signals a configuration gap: a (channel, trigger)
// pair the catalog does not cover. The scheduler skips the lead loudly
// instead of sending a blank email.
var ErrTemplateNotFound = errors.New("email template not found")

// Renderer turns a (channel, trigger) pair plus lead variables into a
// ready-to-send Message. Templates are Liquid; parsed templates are cached.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // template key -> *liquid.Template
}

func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

// Render produces subject, HTML body and plain-text body from the same
// source copy. Unknown (channel, trigger) pairs return ErrTemplateNotFound.
func (r *Renderer) Render(channel entity.Channel, trigger string, vars TemplateVars) (Message, error) {
	byTrigger, ok := templates[channel]
	if !ok {
		return Message{}, fmt.Errorf("%w: channel %s", ErrTemplateNotFound, channel)
	}
	def, ok := byTrigger[trigger]
	if !ok {
		return Message{}, fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, channel, trigger)
	}

	raw := map[string]interface{}{
		"contact_name":  vars.ContactName,
		"company":       vars.Company,
		"reference":     vars.Reference,
		"download_link": vars.DownloadLink,
	}
	escaped := map[string]interface{}{
		"contact_name":  html.EscapeString(vars.ContactName),
		"company":       html.EscapeString(vars.Company),
		"reference":     html.EscapeString(vars.Reference),
		"download_link": vars.DownloadLink, // URL we generated ourselves
	}

	key := string(channel) + "/" + trigger

	subject, err := r.renderString(key+"/subject", def.Subject, raw)
	if err != nil {
		return Message{}, err
	}
	text, err := r.renderString(key+"/text", def.Body, raw)
	if err != nil {
		return Message{}, err
	}
	htmlBody, err := r.renderString(key+"/html", def.Body, escaped)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Subject: subject,
		Text:    text,
		HTML:    wrapHTML(subject, htmlBody),
	}, nil
}

func (r *Renderer) renderString(key, src string, bindings map[string]interface{}) (string, error) {
	var tpl *liquid.Template

	if cached, ok := r.cache.Load(key); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := r.engine.ParseString(src)
		if err != nil {
			return "", fmt.Errorf("parse template %s: %w", key, err)
		}
		r.cache.Store(key, parsed)
		tpl = parsed
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", key, err)
	}
	return strings.TrimSpace(out), nil
}

// wrapHTML converts the plain-copy paragraphs into a minimal HTML document.
func wrapHTML(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head><body>")
	for _, paragraph := range strings.Split(body, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(paragraph, "\n", "<br>"))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

type templateDef struct {
	Subject string
	Body    string
}

// One entry per (channel, trigger). Checkpoint copy follows the lead's age;
// the library channel also carries a confirmation template with the signed
// download link.
var templates = map[entity.Channel]map[string]templateDef{
	entity.ChannelLibrary: {
		entity.TriggerConfirmation: {
			Subject: "Your download is ready: {{ reference }}",
			Body: `Hi {{ contact_name }},

Thanks for your interest in "{{ reference }}". Your download link is below; it stays valid for 24 hours.

{{ download_link }}

If the link expires, just request the material again from our library.`,
		},
		"day3": {
			Subject: "{{ contact_name }}, did \"{{ reference }}\" answer your questions?",
			Body: `Hi {{ contact_name }},

A few days ago you downloaded "{{ reference }}" for {{ company }}. We'd love to hear whether it covered what you were looking for.

If you want to go deeper on any topic, reply to this email and our team will follow up.`,
		},
		"day7": {
			Subject: "More resources for {{ company }}",
			Body: `Hi {{ contact_name }},

Since you read "{{ reference }}", we've put together related material other teams at companies like {{ company }} found useful.

Browse the library any time, or reply if you'd rather talk it through.`,
		},
		"day14": {
			Subject: "See it working, not just on paper",
			Body: `Hi {{ contact_name }},

Reading about it is one thing; seeing it run on your own scenario is another. If "{{ reference }}" raised questions for {{ company }}, a 30-minute demo usually answers them.

Reply with a time that works and we'll set it up.`,
		},
		"day30": {
			Subject: "Last check-in from us, {{ contact_name }}",
			Body: `Hi {{ contact_name }},

It's been a month since you downloaded "{{ reference }}". We won't keep filling your inbox, but the door stays open.

Whenever the timing is right for {{ company }}, we're one reply away.`,
		},
	},
	entity.ChannelContact: {
		"day3": {
			Subject: "Following up on your message, {{ contact_name }}",
			Body: `Hi {{ contact_name }},

Thanks again for reaching out on behalf of {{ company }}. We wanted to make sure your question didn't fall through the cracks.

If anything is still open, reply here and we'll pick it right up.`,
		},
		"day7": {
			Subject: "Anything else we can help {{ company }} with?",
			Body: `Hi {{ contact_name }},

A week ago you contacted us about: "{{ reference }}".

If the topic is still on your desk, we're happy to get the right specialist on a quick call.`,
		},
		"day14": {
			Subject: "A quick idea for {{ company }}",
			Body: `Hi {{ contact_name }},

Teams that contact us about topics like yours usually find a short walkthrough more useful than another email thread.

Want us to set one up for {{ company }}? Just reply with a time.`,
		},
		"day30": {
			Subject: "Closing the loop, {{ contact_name }}",
			Body: `Hi {{ contact_name }},

We'll stop nudging after this one. Your inquiry stays in our system, so picking the conversation back up later is easy.

Thanks for considering us for {{ company }}.`,
		},
	},
	entity.ChannelDemo: {
		"day3": {
			Subject: "Your demo request for {{ reference }}",
			Body: `Hi {{ contact_name }},

Thanks for requesting a demo of {{ reference }} for {{ company }}. Our team is lining up a specialist who knows your industry.

If your availability changed, reply here and we'll adjust.`,
		},
		"day7": {
			Subject: "Still interested in seeing {{ reference }}?",
			Body: `Hi {{ contact_name }},

We haven't managed to get the demo of {{ reference }} on the calendar yet. No pressure — schedules are hard.

Reply with two or three slots that work for {{ company }} and we'll take the first one.`,
		},
		"day14": {
			Subject: "What other teams ask in their first demo",
			Body: `Hi {{ contact_name }},

While we wait to schedule your {{ reference }} demo, here's what companies like {{ company }} usually ask first: integration effort, rollout time, and pricing tiers.

We can cover all three in 30 minutes whenever you're ready.`,
		},
		"day30": {
			Subject: "Your demo slot is still reserved",
			Body: `Hi {{ contact_name }},

A month on, your demo request for {{ reference }} is still open on our side. This is our last reminder.

Whenever {{ company }} wants to take a look, one reply books it.`,
		},
	},
	entity.ChannelEvent: {
		"day3": {
			Subject: "Thanks for registering for {{ reference }}",
			Body: `Hi {{ contact_name }},

We're glad {{ company }} will be at {{ reference }}. Keep an eye on this inbox for the agenda and access details.

If your plans change, reply here so we can update your registration.`,
		},
		"day7": {
			Subject: "Getting the most out of {{ reference }}",
			Body: `Hi {{ contact_name }},

A tip ahead of {{ reference }}: the hallway conversations are where most attendees from companies like {{ company }} get their best takeaways.

Reply if you'd like us to introduce you to anyone specific.`,
		},
		"day14": {
			Subject: "Materials from {{ reference }}",
			Body: `Hi {{ contact_name }},

The slides and recordings connected to {{ reference }} are available in our library.

If a session raised questions for {{ company }}, we're happy to follow up directly.`,
		},
		"day30": {
			Subject: "After {{ reference }} — what's next for {{ company }}?",
			Body: `Hi {{ contact_name }},

It's been a month since {{ reference }}. If any of the topics stuck with you, a short call is the quickest way to turn them into a plan for {{ company }}.

This is our last follow-up; the offer stands whenever you are.`,
		},
	},
	entity.ChannelPartnership: {
		"day3": {
			Subject: "We received your partnership proposal",
			Body: `Hi {{ contact_name }},

Thanks for proposing a partnership between {{ company }} and us. Your proposal is with our partnerships team for review.

We'll come back with questions or next steps shortly.`,
		},
		"day7": {
			Subject: "Your proposal is under review",
			Body: `Hi {{ contact_name }},

A quick status update: your partnership proposal from {{ company }} is still in review. These evaluations take a little longer because several teams weigh in.

If anything material changed on your side, reply and we'll fold it in.`,
		},
		"day14": {
			Subject: "Let's talk through the partnership",
			Body: `Hi {{ contact_name }},

Written proposals only go so far — the partnerships that work usually start with a conversation. We'd like to schedule one with {{ company }}.

Reply with your availability over the next two weeks.`,
		},
		"day30": {
			Subject: "Keeping the door open, {{ contact_name }}",
			Body: `Hi {{ contact_name }},

We haven't connected about {{ company }}'s proposal yet, and we won't keep nudging after this note.

The proposal stays on file; whenever you want to revive it, we're ready.`,
		},
	},
}
