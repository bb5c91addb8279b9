package recognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const csrfField = "csrfmiddlewaretoken"

var (
	ErrNoCSRFToken = errors.New("recipelens: no csrf token on form page")

	possibleMatches = regexp.MustCompile(`(?s)possible matches.*?Ingredients`)
)

// LensClient talks to a RecipeLens instance, a web form that takes a food
// photo and renders a page of likely dishes.
type LensClient struct {
	client  *resty.Client
	baseURL string
}

func NewLensClient(baseURL string, timeout time.Duration) *LensClient {
	// The session cookie is forwarded by hand, so the default jar is disabled.
	c := resty.New().
		SetCookieJar(nil).
		SetTimeout(timeout)

	return &LensClient{client: c, baseURL: baseURL}
}

// Lookup submits image to RecipeLens and returns the dish names it suggests.
func (l *LensClient) Lookup(ctx context.Context, filename string, image []byte) ([]string, error) {
	token, cookies, err := l.session(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.R().
		SetContext(ctx).
		SetFileReader("image", filename, bytes.NewReader(image)).
		SetFormData(map[string]string{csrfField: token}).
		SetHeader("Cookie", cookies).
		SetHeader("Referer", l.baseURL).
		Post(l.baseURL)
	if err != nil {
		return nil, fmt.Errorf("recipelens upload: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("recipelens upload: status %d", resp.StatusCode())
	}

	return ExtractNames(resp.Body())
}

// session loads the form page and returns its csrf token together with the
// cookies the page set, formatted for a Cookie header.
func (l *LensClient) session(ctx context.Context) (string, string, error) {
	resp, err := l.client.R().SetContext(ctx).Get(l.baseURL)
	if err != nil {
		return "", "", fmt.Errorf("recipelens form: %w", err)
	}
	if !resp.IsSuccess() {
		return "", "", fmt.Errorf("recipelens form: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", "", fmt.Errorf("recipelens form: %w", err)
	}
	token, _ := doc.Find(`input[name="` + csrfField + `"]`).First().Attr("value")
	if token == "" {
		return "", "", ErrNoCSRFToken
	}

	var pairs []string
	for _, c := range resp.Header().Values("Set-Cookie") {
		pair, _, _ := strings.Cut(c, ";")
		if pair = strings.TrimSpace(pair); pair != "" {
			pairs = append(pairs, pair)
		}
	}
	return token, strings.Join(pairs, "; "), nil
}

// ExtractNames pulls dish names out of a RecipeLens result page. It tries the
// recipe list, then the recipe cards, then the plain text between
// "possible matches" and "Ingredients".
func ExtractNames(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	for _, selector := range []string{".recipe-list li", ".recipe-card h5"} {
		if names := texts(doc.Find(selector)); len(names) > 0 {
			return names, nil
		}
	}

	block := possibleMatches.FindString(doc.Find("body").Text())
	var names []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "possible matches") || strings.Contains(line, "Ingredients") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
