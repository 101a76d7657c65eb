package projections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"churchsite/internal/application/listutil"
	"churchsite/internal/domain/about"
	"churchsite/internal/domain/campaign"
	"churchsite/internal/domain/event"
	"churchsite/internal/domain/hero"
	"churchsite/internal/domain/livestream"
	"churchsite/internal/domain/menu"
	"churchsite/internal/domain/message"
	"churchsite/internal/domain/schedule"
	"churchsite/internal/domain/testimonial"
	"churchsite/internal/domain/verse"
)

func manyTestimonials(n int) []testimonial.Testimonial {
	out := make([]testimonial.Testimonial, n)
	for i := range out {
		out[i] = testimonial.Testimonial{ID: fmt.Sprintf("t%d", i+1), Author: "Member", Quote: "Welcoming"}
	}
	return out
}

func homeDeps() GetHomePageDeps {
	later := now.Add(48 * time.Hour)
	return GetHomePageDeps{
		MenuStore: &listMock[menu.Item]{items: []menu.Item{
			{ID: "1", Title: "Home", URL: "/", IsActive: true},
			{ID: "2", Title: "Hidden", URL: "/x", IsActive: false},
		}},
		HeroStore: &listMock[hero.Slide]{items: []hero.Slide{
			{ID: "s2", Title: "Second", Order: 2, IsActive: true},
			{ID: "s1", Title: "First", Order: 1, IsActive: true},
			{ID: "s3", Title: "Draft", Order: 0, IsActive: false},
		}},
		AboutStore: &listMock[about.Section]{items: []about.Section{{ID: "a1", Heading: "Our Story"}}},
		ScheduleStore: &listMock[schedule.Service]{items: []schedule.Service{
			{ID: "wed", Name: "Bible Study", Day: "wednesday", StartTime: "19:00"},
			{ID: "sun2", Name: "Contemporary", Day: "sunday", StartTime: "11:00"},
			{ID: "sun1", Name: "Traditional", Day: "sunday", StartTime: "09:00"},
		}},
		TestimonialStore: &listMock[testimonial.Testimonial]{items: manyTestimonials(8)},
		VerseStore:       &listMock[verse.Verse]{items: []verse.Verse{{ID: "v1", Text: "The Lord is my shepherd", Reference: "Psalm 23:1"}}},
		MessageStore: &mockMessageStore{messages: []message.Message{
			{ID: "m4", Date: "2026-10-11"}, {ID: "m3", Date: "2026-10-04"}, {ID: "m2", Date: "2026-09-27"}, {ID: "m1", Date: "2026-09-20"},
		}},
		StreamStore: &listMock[livestream.Stream]{items: []livestream.Stream{{ID: "next", VideoID: "dQw4w9WgXcQ", ScheduledAt: &later}}},
		EventStore: &mockEventStore{events: []event.Event{
			{ID: "e1", Date: "2026-10-20", Time: "10:00"},
		}},
		CampaignStore: &mockCampaignStore{listMock[campaign.Campaign]{items: []campaign.Campaign{
			{ID: "c1", Goal: "100", EndDate: "2026-12-31"},
			{ID: "c2", Goal: "100", EndDate: "2026-12-31"},
			{ID: "c3", Goal: "100", EndDate: "2026-12-31"},
		}}},
		Location: central,
	}
}

func TestQueryGetHomePage_Assembles(t *testing.T) {
	deps := homeDeps()
	page, err := QueryGetHomePage(context.Background(), deps, now)
	if err != nil {
		t.Fatalf("QueryGetHomePage() error = %v", err)
	}

	if len(page.Navigation) != 1 || page.Navigation[0].Item.Title != "Home" {
		t.Errorf("Navigation = %+v, want only Home", page.Navigation)
	}

	var slides []string
	for _, s := range page.Slides {
		slides = append(slides, s.ID)
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, slides); diff != "" {
		t.Errorf("slides mismatch (-want +got):\n%s", diff)
	}

	var services []string
	for _, s := range page.Schedule {
		services = append(services, s.ID)
	}
	if diff := cmp.Diff([]string{"sun1", "sun2", "wed"}, services); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}

	if got := len(page.Testimonials.Items); got != listutil.DefaultPerPage {
		t.Errorf("testimonials on first page = %d, want %d", got, listutil.DefaultPerPage)
	}
	if page.Testimonials.Page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.Testimonials.Page.TotalPages)
	}
	if page.Verse == nil || page.Verse.ID != "v1" {
		t.Errorf("Verse = %+v, want v1", page.Verse)
	}
	if len(page.Messages) != HomeMessageCount || page.Messages[0].ID != "m4" {
		t.Errorf("Messages = %+v, want the %d newest", page.Messages, HomeMessageCount)
	}
	if page.Stream == nil || page.Stream.ID != "next" {
		t.Errorf("Stream = %+v, want upcoming stream", page.Stream)
	}
	if len(page.Events) != 1 || !page.Events[0].CanRegister {
		t.Errorf("Events = %+v, want one open event", page.Events)
	}
	if len(page.Campaigns) != HomeCampaignCount {
		t.Errorf("Campaigns = %d, want %d", len(page.Campaigns), HomeCampaignCount)
	}
}

func TestQueryGetHomePage_EmptySite(t *testing.T) {
	deps := GetHomePageDeps{
		MenuStore:        &listMock[menu.Item]{},
		HeroStore:        &listMock[hero.Slide]{},
		AboutStore:       &listMock[about.Section]{},
		ScheduleStore:    &listMock[schedule.Service]{},
		TestimonialStore: &listMock[testimonial.Testimonial]{},
		VerseStore:       &listMock[verse.Verse]{},
		MessageStore:     &mockMessageStore{},
		StreamStore:      &listMock[livestream.Stream]{},
		EventStore:       &mockEventStore{},
		CampaignStore:    &mockCampaignStore{},
		Location:         central,
	}
	page, err := QueryGetHomePage(context.Background(), deps, now)
	if err != nil {
		t.Fatalf("QueryGetHomePage() error = %v", err)
	}
	if page.Verse != nil || page.Stream != nil {
		t.Errorf("expected no verse and no stream, got %+v / %+v", page.Verse, page.Stream)
	}
	if page.Testimonials.Items == nil || page.Testimonials.Page.TotalPages != 1 {
		t.Errorf("Testimonials = %+v, want one empty page", page.Testimonials)
	}
}

func TestQueryGetHomePage_NamesFailingSection(t *testing.T) {
	deps := homeDeps()
	boom := errors.New("database is locked")
	deps.VerseStore = &listMock[verse.Verse]{err: boom}

	_, err := QueryGetHomePage(context.Background(), deps, now)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if got := err.Error(); got != "verse: database is locked" {
		t.Errorf("error = %q", got)
	}
}

func TestQueryGetHomePage_EmptySiteHasEmptyLists(t *testing.T) {
	deps := GetHomePageDeps{
		MenuStore:        &listMock[menu.Item]{},
		HeroStore:        &listMock[hero.Slide]{},
		AboutStore:       &listMock[about.Section]{},
		ScheduleStore:    &listMock[schedule.Service]{},
		TestimonialStore: &listMock[testimonial.Testimonial]{},
		VerseStore:       &listMock[verse.Verse]{},
		MessageStore:     &mockMessageStore{},
		StreamStore:      &listMock[livestream.Stream]{},
		EventStore:       &mockEventStore{},
		CampaignStore:    &mockCampaignStore{},
		Location:         central,
	}
	page, err := QueryGetHomePage(context.Background(), deps, now)
	if err != nil {
		t.Fatalf("QueryGetHomePage() error = %v", err)
	}
	data, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("empty home page has null sections: %s", data)
	}
	for _, key := range []string{`"about":[]`, `"schedule":[]`, `"messages":[]`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("missing %s in %s", key, data)
		}
	}
}
