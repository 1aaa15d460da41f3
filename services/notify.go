package services

import (
	"log"
	"sync"

	"admission-portal-api/models"
)

// Notifier delivers the application slip by email after a submission or a
// confirmed payment. Jobs run on a background worker so a slow or failing
// mail provider never blocks or fails the request that queued them; delivery
// is best-effort and failures are only logged.
type Notifier struct {
	// Render produces the PDF slip for an application.
	Render func(app *models.Applicant) ([]byte, error)

	// Send delivers the slip to the applicant.
	Send func(to, subject, body, filename string, attachment []byte) error

	jobs chan *models.Applicant
	wg   sync.WaitGroup
	once sync.Once
}

func NewNotifier(render func(*models.Applicant) ([]byte, error), send func(to, subject, body, filename string, attachment []byte) error) *Notifier {
	return &Notifier{
		Render: render,
		Send:   send,
		jobs:   make(chan *models.Applicant, 64),
	}
}

// Start launches the delivery worker. Safe to call once.
func (n *Notifier) Start() {
	n.once.Do(func() {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			for app := range n.jobs {
				n.deliver(app)
			}
		}()
	})
}

// Enqueue queues a notification without blocking the caller. When the queue
// is full the job is dropped with a log line; the submission itself has
// already been committed and must not be held up.
func (n *Notifier) Enqueue(app *models.Applicant) {
	if app == nil {
		return
	}
	select {
	case n.jobs <- app:
	default:
		log.Printf("notifier: queue full, dropping slip delivery for user %d", app.UserID)
	}
}

// Stop drains the queue and waits for in-flight deliveries.
func (n *Notifier) Stop() {
	close(n.jobs)
	n.wg.Wait()
}

func (n *Notifier) deliver(app *models.Applicant) {
	to := app.ContactEmail()
	if to == "" {
		log.Printf("notifier: no contact email on record for user %d, skipping slip delivery", app.UserID)
		return
	}

	slip, err := n.Render(app)
	if err != nil {
		log.Printf("notifier: slip render failed for user %d: %v", app.UserID, err)
		return
	}

	name := "your application"
	if app.PersonalInfo != nil && app.PersonalInfo.FullName != "" {
		name = app.PersonalInfo.FullName
	}
	body := "Hello " + name + ", your application has been received. Please find your registration slip attached."

	filename := "application_slip.pdf"
	if app.ApplicationID != nil {
		filename = "Application_Slip_" + sanitizeFilename(*app.ApplicationID) + ".pdf"
	}

	if err := n.Send(to, "Application Submitted Successfully", body, filename, slip); err != nil {
		log.Printf("notifier: email delivery to %s failed for user %d: %v", to, app.UserID, err)
		return
	}
	log.Printf("notifier: slip delivered to %s for user %d", to, app.UserID)
}

func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
