package webhook

type Kind string

const (
	KindOpened    Kind = "opened"
	KindClosed    Kind = "closed"
	KindMerged    Kind = "merged"
	KindCommented Kind = "commented"
)

// Account is an identity on the external provider, not an internal user.
type Account struct {
	Login string
	URL   string
}

type Repository struct {
	FullName string
	URL      string
}

type PullRequest struct {
	Number int64
	Title  string
	URL    string
}

type EventMeta struct {
	Provider    string
	DeliveryID  string
	Sender      Account
	SourceURL   string
	Repository  Repository
	PullRequest PullRequest
	// Bodies are the free-text fields scanned for work package links, in scan order.
	Bodies []string
}

// Event is one of PullRequestOpened, PullRequestClosed, PullRequestMerged or
// IssueCommentCreated.
type Event interface {
	Kind() Kind
	Meta() EventMeta
	sealed()
}

type PullRequestOpened struct{ EventMeta }

type PullRequestClosed struct{ EventMeta }

type PullRequestMerged struct{ EventMeta }

type IssueCommentCreated struct{ EventMeta }

func (PullRequestOpened) Kind() Kind   { return KindOpened }
func (PullRequestClosed) Kind() Kind   { return KindClosed }
func (PullRequestMerged) Kind() Kind   { return KindMerged }
func (IssueCommentCreated) Kind() Kind { return KindCommented }

func (e PullRequestOpened) Meta() EventMeta   { return e.EventMeta }
func (e PullRequestClosed) Meta() EventMeta   { return e.EventMeta }
func (e PullRequestMerged) Meta() EventMeta   { return e.EventMeta }
func (e IssueCommentCreated) Meta() EventMeta { return e.EventMeta }

func (PullRequestOpened) sealed()   {}
func (PullRequestClosed) sealed()   {}
func (PullRequestMerged) sealed()   {}
func (IssueCommentCreated) sealed() {}

// withDelivery returns a copy of ev carrying the provider and delivery id.
func withDelivery(ev Event, provider, deliveryID string) Event {
	meta := ev.Meta()
	meta.Provider = provider
	meta.DeliveryID = deliveryID
	meta.Bodies = append([]string(nil), meta.Bodies...)

	switch ev.(type) {
	case PullRequestOpened:
		return PullRequestOpened{meta}
	case PullRequestClosed:
		return PullRequestClosed{meta}
	case PullRequestMerged:
		return PullRequestMerged{meta}
	case IssueCommentCreated:
		return IssueCommentCreated{meta}
	}
	return ev
}
