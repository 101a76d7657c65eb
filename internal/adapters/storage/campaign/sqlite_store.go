package campaign

import (
	"context"
	"time"

	"churchsite/internal/adapters/storage"
	domain "churchsite/internal/domain/campaign"
)

const selectCampaign = `SELECT id, title, description, goal, raised, end_date, image_url, created_at, updated_at FROM campaign`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new campaign store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Campaign by its ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Campaign, error) {
	c, err := scanCampaign(s.db.QueryRowContext(ctx, selectCampaign+" WHERE id = ?", id).Scan)
	return c, storage.NotFound(err, "campaign")
}

// Save persists a Campaign (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, c domain.Campaign) error {
	raised := c.Raised
	if raised == "" {
		raised = "0"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campaign (id, title, description, goal, raised, end_date, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, description=excluded.description, goal=excluded.goal,
			raised=excluded.raised, end_date=excluded.end_date, image_url=excluded.image_url,
			updated_at=excluded.updated_at`,
		c.ID, c.Title, c.Description, c.Goal, raised, c.EndDate, c.ImageURL,
		storage.FormatTime(c.CreatedAt), storage.FormatTime(c.UpdatedAt))
	return err
}

// Delete removes a Campaign and its donation records.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM campaign WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected(res, "campaign")
}

// List returns all campaigns, ending soonest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, selectCampaign+" ORDER BY end_date ASC, title ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of campaigns.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaign").Scan(&n)
	return n, err
}

// CreateDonation records a pending checkout.
func (s *SQLiteStore) CreateDonation(ctx context.Context, d Donation) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation (id, campaign_id, amount, currency, donor_email, checkout_session_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CampaignID, d.Amount, d.Currency, d.DonorEmail, d.CheckoutSessionID, DonationPending, storage.FormatTime(d.CreatedAt))
	return err
}

// CompleteDonation marks a checkout paid and adds amount to the campaign's raised
// total, all in one transaction. Replayed webhooks for a completed checkout are
// no-ops and report applied=false.
// PRE: amount is a positive decimal string
// POST: storage.ErrNotFound when no donation has that checkout session id
func (s *SQLiteStore) CompleteDonation(ctx context.Context, checkoutSessionID, amount string) (domain.Campaign, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Campaign{}, false, err
	}
	defer tx.Rollback()

	var campaignID, status string
	err = tx.QueryRowContext(ctx, `SELECT campaign_id, status FROM donation WHERE checkout_session_id = ?`, checkoutSessionID).
		Scan(&campaignID, &status)
	if err != nil {
		return domain.Campaign{}, false, storage.NotFound(err, "donation")
	}

	c, err := scanCampaign(tx.QueryRowContext(ctx, selectCampaign+" WHERE id = ?", campaignID).Scan)
	if err != nil {
		return domain.Campaign{}, false, storage.NotFound(err, "campaign")
	}
	if status == DonationCompleted {
		return c, false, nil
	}

	if err := c.AddContribution(amount); err != nil {
		return domain.Campaign{}, false, err
	}
	now := time.Now()
	c.UpdatedAt = now
	if _, err := tx.ExecContext(ctx, `UPDATE campaign SET raised = ?, updated_at = ? WHERE id = ?`,
		c.Raised, storage.FormatTime(now), c.ID); err != nil {
		return domain.Campaign{}, false, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE donation SET status = ?, amount = ?, completed_at = ? WHERE checkout_session_id = ?`,
		DonationCompleted, amount, storage.FormatTime(now), checkoutSessionID); err != nil {
		return domain.Campaign{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Campaign{}, false, err
	}
	return c, true, nil
}

func scanCampaign(scan func(dest ...any) error) (domain.Campaign, error) {
	var c domain.Campaign
	var createdAt, updatedAt string
	if err := scan(&c.ID, &c.Title, &c.Description, &c.Goal, &c.Raised, &c.EndDate, &c.ImageURL, &createdAt, &updatedAt); err != nil {
		return domain.Campaign{}, err
	}
	c.CreatedAt = storage.ParseTime(createdAt)
	c.UpdatedAt = storage.ParseTime(updatedAt)
	return c, nil
}
