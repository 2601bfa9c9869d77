package webhook

import (
	"encoding/json"
	"strconv"
)

const (
	EventPullRequest  = "pull_request"
	EventIssueComment = "issue_comment"
)

// Classifier turns GitHub-shaped payloads into Events. It holds no state.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify maps an event type and its decoded payload to an Event. ok is false
// when the event is not one this engine journals. A recognized event missing a
// required field fails with a *MalformedPayloadError.
func (c *Classifier) Classify(eventType string, payload map[string]any) (Event, bool, error) {
	switch eventType {
	case EventPullRequest:
		return classifyPullRequest(payload)
	case EventIssueComment:
		return classifyIssueComment(payload)
	default:
		return nil, false, nil
	}
}

func classifyPullRequest(payload map[string]any) (Event, bool, error) {
	action, _ := payload["action"].(string)
	if action != "opened" && action != "closed" {
		return nil, false, nil
	}

	malformed := func(field string) error {
		return &MalformedPayloadError{EventType: EventPullRequest, Field: field}
	}

	pr, ok := object(payload, "pull_request")
	if !ok {
		return nil, false, malformed("pull_request")
	}
	body, ok := text(pr, "body")
	if !ok {
		return nil, false, malformed("pull_request.body")
	}
	url, ok := pr["html_url"].(string)
	if !ok {
		return nil, false, malformed("pull_request.html_url")
	}

	number, ok := integer(payload["number"])
	if !ok {
		number, _ = integer(pr["number"])
	}
	title, _ := pr["title"].(string)

	meta := EventMeta{
		Sender:     account(payload["sender"]),
		SourceURL:  url,
		Repository: pullRequestRepository(pr, payload),
		PullRequest: PullRequest{
			Number: number,
			Title:  title,
			URL:    url,
		},
		Bodies: []string{body},
	}

	if action == "opened" {
		return PullRequestOpened{meta}, true, nil
	}
	if merged, _ := pr["merged"].(bool); merged {
		return PullRequestMerged{meta}, true, nil
	}
	return PullRequestClosed{meta}, true, nil
}

func classifyIssueComment(payload map[string]any) (Event, bool, error) {
	if action, _ := payload["action"].(string); action != "created" {
		return nil, false, nil
	}

	malformed := func(field string) error {
		return &MalformedPayloadError{EventType: EventIssueComment, Field: field}
	}

	issue, ok := object(payload, "issue")
	if !ok {
		return nil, false, malformed("issue")
	}
	pr, ok := object(issue, "pull_request")
	if !ok {
		// A comment on a plain issue.
		return nil, false, nil
	}

	comment, ok := object(payload, "comment")
	if !ok {
		return nil, false, malformed("comment")
	}
	body, ok := text(comment, "body")
	if !ok {
		return nil, false, malformed("comment.body")
	}
	commentURL, ok := comment["html_url"].(string)
	if !ok {
		return nil, false, malformed("comment.html_url")
	}

	sender := account(payload["sender"])
	if sender.Login == "" {
		sender = account(comment["user"])
	}

	number, _ := integer(issue["number"])
	title, _ := issue["title"].(string)
	prURL, _ := pr["html_url"].(string)

	return IssueCommentCreated{EventMeta{
		Sender:     sender,
		SourceURL:  commentURL,
		Repository: repository(payload["repository"]),
		PullRequest: PullRequest{
			Number: number,
			Title:  title,
			URL:    prURL,
		},
		Bodies: []string{body},
	}}, true, nil
}

func pullRequestRepository(pr, payload map[string]any) Repository {
	if base, ok := object(pr, "base"); ok {
		if repo := repository(base["repo"]); repo.FullName != "" {
			return repo
		}
	}
	return repository(payload["repository"])
}

func repository(v any) Repository {
	m, _ := v.(map[string]any)
	name, _ := m["full_name"].(string)
	url, _ := m["html_url"].(string)
	return Repository{FullName: name, URL: url}
}

func account(v any) Account {
	m, _ := v.(map[string]any)
	login, _ := m["login"].(string)
	url, _ := m["html_url"].(string)
	return Account{Login: login, URL: url}
}

func object(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)
	return v, ok
}

// text reads a string field where JSON null means empty. A missing key or a
// non-string value is reported as absent.
func text(m map[string]any, key string) (string, bool) {
	v, present := m[key]
	if !present {
		return "", false
	}
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// integer accepts the shapes a decoded number can take: float64 from
// encoding/json, json.Number with UseNumber, or a numeric string.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n == float64(int64(n))
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
