package web

import (
	"churchsite/internal/application/orchestrators"
	"churchsite/internal/application/projections"
)

func (s *Server) eventsDeps() projections.GetEventsDeps {
	return projections.GetEventsDeps{EventStore: s.stores.EventStore, Location: s.opts.Location}
}

func (s *Server) campaignsDeps() projections.GetCampaignsDeps {
	return projections.GetCampaignsDeps{CampaignStore: s.stores.CampaignStore, Location: s.opts.Location}
}

func (s *Server) homeDeps() projections.GetHomePageDeps {
	return projections.GetHomePageDeps{
		MenuStore:        s.stores.MenuStore,
		HeroStore:        s.stores.HeroStore,
		AboutStore:       s.stores.AboutStore,
		ScheduleStore:    s.stores.ScheduleStore,
		TestimonialStore: s.stores.TestimonialStore,
		VerseStore:       s.stores.VerseStore,
		MessageStore:     s.stores.MessageStore,
		StreamStore:      s.stores.StreamStore,
		EventStore:       s.stores.EventStore,
		CampaignStore:    s.stores.CampaignStore,
		Location:         s.opts.Location,
	}
}

func (s *Server) dashboardDeps() projections.GetAdminDashboardDeps {
	return projections.GetAdminDashboardDeps{
		EventStore:       s.stores.EventStore,
		CampaignStore:    s.stores.CampaignStore,
		PostStore:        s.stores.PostStore,
		MessageStore:     s.stores.MessageStore,
		TestimonialStore: s.stores.TestimonialStore,
		SubscriberStore:  s.stores.SubscriberStore,
		OutboxStore:      s.stores.OutboxStore,
		Location:         s.opts.Location,
	}
}

func (s *Server) registerDeps() orchestrators.RegisterForEventDeps {
	return orchestrators.RegisterForEventDeps{
		EventStore: s.stores.EventStore,
		Outbox:     s.stores.OutboxStore,
		Location:   s.opts.Location,
		Now:        s.opts.Now,
		SiteName:   s.opts.SiteName,
	}
}

func (s *Server) donationDeps() orchestrators.DonationDeps {
	return orchestrators.DonationDeps{
		CampaignStore: s.stores.CampaignStore,
		Payments:      s.opts.Payments,
		Outbox:        s.stores.OutboxStore,
		Location:      s.opts.Location,
		Now:           s.opts.Now,
		PublicURL:     s.opts.PublicURL,
		Currency:      s.opts.Currency,
		SiteName:      s.opts.SiteName,
	}
}

func (s *Server) newsletterDeps() orchestrators.NewsletterDeps {
	return orchestrators.NewsletterDeps{
		SubscriberStore: s.stores.SubscriberStore,
		Outbox:          s.stores.OutboxStore,
		Now:             s.opts.Now,
		PublicURL:       s.opts.PublicURL,
		SiteName:        s.opts.SiteName,
	}
}
