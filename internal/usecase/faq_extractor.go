package usecase

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopsight/backend/internal/domain"
)

// faqContainerSelector lists the container class names scanned by the
// fallback strategy when no disclosure widgets exist
const faqContainerSelector = ".faq, .faqs, .accordion, .question"

// Class patterns identifying the question and answer children inside a
// fallback FAQ container. The bare letters match whole class words only.
var (
	faqQuestionClassRegex = regexp.MustCompile(`(?i)question|\bq\b`)
	faqAnswerClassRegex   = regexp.MustCompile(`(?i)answer|\ba\b`)
)

// FAQExtractor mines question/answer pairs from the parsed DOM.
// It never fails; pages without FAQ markup yield an empty list.
type FAQExtractor struct{}

// NewFAQExtractor creates a new FAQ extractor
func NewFAQExtractor() *FAQExtractor {
	return &FAQExtractor{}
}

// Extract returns all FAQ entries found in the document. Disclosure
// widgets (<details>/<summary>) are the primary source; classed
// accordion containers are the fallback when none yield entries.
func (e *FAQExtractor) Extract(doc *goquery.Document) []domain.FaqEntry {
	if doc == nil {
		return []domain.FaqEntry{}
	}

	faqs := e.fromDisclosures(doc)
	if len(faqs) == 0 {
		faqs = e.fromContainers(doc)
	}
	return faqs
}

// fromDisclosures reads <details> elements: the summary is the question,
// the rest of the element's text is the answer.
func (e *FAQExtractor) fromDisclosures(doc *goquery.Document) []domain.FaqEntry {
	faqs := []domain.FaqEntry{}
	doc.Find("details").Each(func(_ int, details *goquery.Selection) {
		summary := details.Find("summary").First()
		if summary.Length() == 0 {
			return
		}
		question := cleanText(summary.Text())
		answer := strings.TrimSpace(strings.Replace(cleanText(details.Text()), question, "", 1))
		faqs = append(faqs, domain.FaqEntry{Question: question, Answer: answer})
	})
	return faqs
}

// fromContainers scans known FAQ container classes for a question-classed
// child and an answer-classed child, emitting a pair only when both exist.
func (e *FAQExtractor) fromContainers(doc *goquery.Document) []domain.FaqEntry {
	faqs := []domain.FaqEntry{}
	doc.Find(faqContainerSelector).Each(func(_ int, container *goquery.Selection) {
		question := findByClassPattern(container, faqQuestionClassRegex)
		answer := findByClassPattern(container, faqAnswerClassRegex)
		if question == nil || answer == nil {
			return
		}
		faqs = append(faqs, domain.FaqEntry{
			Question: cleanText(question.Text()),
			Answer:   cleanText(answer.Text()),
		})
	})
	return faqs
}

// findByClassPattern returns the first descendant whose class attribute
// matches the pattern, or nil
func findByClassPattern(container *goquery.Selection, pattern *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	container.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if pattern.MatchString(class) {
			found = s
			return false
		}
		return true
	})
	return found
}
