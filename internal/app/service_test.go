package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seraaj/matchcore/internal/adapters/repository"
	service "github.com/seraaj/matchcore/internal/app"
	"github.com/seraaj/matchcore/internal/domain/gamification"
	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func completion(vol, org, opp string, hours float64) model.Event {
	return model.Event{
		Kind:       model.KindCompletion,
		Completion: &model.Completion{VolunteerID: vol, OrganizationID: org, OpportunityID: opp, Hours: hours},
	}
}

func endorsement(vol, skill string) model.Event {
	return model.Event{
		Kind: model.KindEndorsement,
		Endorsement: &model.SkillEndorsement{
			VolunteerID:    vol,
			OrganizationID: "org1",
			SkillName:      skill,
			Strength:       4,
		},
	}
}

func badgeNames(badges []model.VolunteerBadge) []string {
	names := make([]string, len(badges))
	for i, b := range badges {
		names[i] = b.BadgeName
	}
	return names
}

func seededStore() repository.Store {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	mustPut := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	mustPut(store.PutOpportunity(ctx, &model.Opportunity{
		ID:             "o-python",
		OrganizationID: "org1",
		SkillsWeighted: map[string]int{"python": 5},
	}))
	mustPut(store.PutOpportunity(ctx, &model.Opportunity{
		ID:             "o-design",
		OrganizationID: "org2",
		SkillsWeighted: map[string]int{"design": 3},
	}))
	mustPut(store.PutVolunteer(ctx, &model.VolunteerProfile{
		ID:               "v1",
		SkillProficiency: map[string]model.Proficiency{"python": model.Expert},
		WillingToRemote:  true,
		DesiredSkills:    []string{"Design"},
	}))
	mustPut(store.PutVolunteer(ctx, &model.VolunteerProfile{
		ID:               "v2",
		SkillProficiency: map[string]model.Proficiency{"design": model.Beginner},
	}))
	mustPut(store.AddResource(ctx, model.LearningResource{SkillName: "design", URL: "https://example.org/design"}))
	return store
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
			So(svc.Store(), ShouldNotBeNil)
			So(svc.Catalog().Thresholds(), ShouldHaveLength, 2)

			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["queueSize"], ShouldEqual, 10_000)
			So(stats["dedupeSize"], ShouldEqual, 100_000)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		catalog, err := gamification.NewCatalog([]int{5})
		So(err, ShouldBeNil)

		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(50),
			service.WithDedupeSize(25),
			service.WithDefaultLimit(1),
			service.WithCatalog(catalog),
			service.WithScorer(scoring.NewWeightedScorer(scoring.WithRadius(10))),
			service.WithClock(clock),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["queueSize"], ShouldEqual, 50)
			So(stats["dedupeSize"], ShouldEqual, 25)
			So(svc.Catalog(), ShouldEqual, catalog)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		Convey("When submitting before Start", func() {
			_, err := svc.Submit(ctx, completion("v1", "org1", "o1", 1))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is ready and a second Start is a no-op", func() {
				So(svc.Ready(), ShouldBeTrue)
				So(svc.Start(ctx), ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
				So(svc.Stop(ctx), ShouldBeNil)
			})

			Convey("And after Stop submissions are rejected again", func() {
				So(svc.Stop(ctx), ShouldBeNil)
				So(svc.Ready(), ShouldBeFalse)
				So(svc.Stop(ctx), ShouldBeNil)

				_, err := svc.Submit(ctx, completion("v1", "org1", "o1", 1))
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Restart(t *testing.T) {
	Convey("Given a service that accepted an event and was stopped", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		svc := service.New(service.WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)

		e := completion("v1", "org1", "o1", 1)
		e.ID = "e1"
		duplicate, err := svc.Submit(ctx, e)
		So(err, ShouldBeNil)
		So(duplicate, ShouldBeFalse)
		So(svc.Stop(ctx), ShouldBeNil)
		So(svc.TotalHours("v1"), ShouldEqual, 1.0)

		Convey("When it is started again and the event is redelivered", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			duplicate, err := svc.Submit(ctx, e)

			Convey("Then the event is still a duplicate and hours are not credited twice", func() {
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeTrue)
				So(svc.Stop(ctx), ShouldBeNil)
				So(svc.TotalHours("v1"), ShouldEqual, 1.0)
				So(svc.GetStats()["completions"], ShouldEqual, 1)
			})

			Convey("And new events are still processed", func() {
				next := completion("v1", "org1", "o1", 2)
				next.ID = "e2"
				duplicate, err := svc.Submit(ctx, next)
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeFalse)
				So(svc.Stop(ctx), ShouldBeNil)
				So(svc.TotalHours("v1"), ShouldEqual, 3.0)
			})
		})
	})
}

func TestService_SubmitValidation(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("Then malformed events are rejected before queueing", func() {
			cases := []struct {
				event model.Event
				want  error
			}{
				{model.Event{Kind: "signup"}, service.ErrUnknownEventKind},
				{model.Event{Kind: model.KindCompletion}, service.ErrInvalidEvent},
				{completion("", "org1", "o1", 1), service.ErrInvalidEvent},
				{completion("v1", "org1", "o1", -2), service.ErrInvalidEvent},
				{model.Event{Kind: model.KindEndorsement, Endorsement: &model.SkillEndorsement{VolunteerID: "v1", SkillName: "go"}}, service.ErrInvalidEvent},
				{model.Event{Kind: model.KindFeedback, Feedback: &model.MatchFeedback{Rating: 5}}, service.ErrInvalidEvent},
			}
			for _, tc := range cases {
				duplicate, err := svc.Submit(ctx, tc.event)
				So(duplicate, ShouldBeFalse)
				So(errors.Is(err, tc.want), ShouldBeTrue)
			}
		})

		Convey("Then Handle rejects unknown kinds too", func() {
			err := svc.Handle(ctx, model.Event{Kind: "signup"})
			So(errors.Is(err, service.ErrUnknownEventKind), ShouldBeTrue)
		})
	})
}

func TestService_Handle(t *testing.T) {
	Convey("Given a service that applies events synchronously", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithClock(clock))

		Convey("When a volunteer logs 12 hours and receives one endorsement", func() {
			So(svc.Handle(ctx, completion("v1", "org1", "o1", 12)), ShouldBeNil)
			So(svc.Handle(ctx, endorsement("v1", "python")), ShouldBeNil)

			Convey("Then they hold the 10 Hours and Endorsed badges", func() {
				badges := svc.Badges("v1")
				So(badgeNames(badges), ShouldResemble, []string{"10 Hours", "Endorsed"})
				So(badges[0].AwardedAt, ShouldEqual, fixedNow)
				So(badges[0].ID, ShouldNotBeEmpty)
			})

			Convey("And the endorsement is stored with an id and timestamp", func() {
				ens := svc.Endorsements("v1")
				So(ens, ShouldHaveLength, 1)
				So(ens[0].ID, ShouldNotBeEmpty)
				So(ens[0].EndorsedAt, ShouldEqual, fixedNow)
			})

			Convey("And a later completion crossing 50 hours adds only the new badge", func() {
				So(svc.Handle(ctx, completion("v1", "org1", "o2", 40)), ShouldBeNil)
				So(badgeNames(svc.Badges("v1")), ShouldResemble, []string{"10 Hours", "Endorsed", "50 Hours"})
				So(svc.TotalHours("v1"), ShouldEqual, 52.0)
			})

			Convey("And repeating events never duplicates a badge", func() {
				So(svc.Handle(ctx, completion("v1", "org1", "o1", 1)), ShouldBeNil)
				So(svc.Handle(ctx, endorsement("v1", "sql")), ShouldBeNil)
				So(svc.Badges("v1"), ShouldHaveLength, 2)
				So(svc.Endorsements("v1"), ShouldHaveLength, 2)
			})
		})

		Convey("When completions arrive for several volunteers", func() {
			So(svc.Handle(ctx, completion("a", "org1", "o1", 5)), ShouldBeNil)
			So(svc.Handle(ctx, completion("b", "org1", "o1", 20)), ShouldBeNil)
			So(svc.Handle(ctx, completion("c", "org2", "o3", 5)), ShouldBeNil)

			Convey("Then the leaderboard ranks by hours with stable ties", func() {
				board := svc.Leaderboard(0)
				So(board, ShouldHaveLength, 3)
				So(board[0].VolunteerID, ShouldEqual, "b")
				So(board[1].VolunteerID, ShouldEqual, "a")
				So(board[2].VolunteerID, ShouldEqual, "c")
				So(board[2].Rank, ShouldEqual, 3)
				So(svc.Leaderboard(1), ShouldHaveLength, 1)
			})

			Convey("Then organization and platform analytics aggregate them", func() {
				report := svc.OrganizationReport("org1")
				So(report.TotalHours, ShouldEqual, 25.0)
				So(report.OpportunitiesCompleted, ShouldEqual, 1)
				So(report.UniqueVolunteers, ShouldEqual, 2)

				overview := svc.PlatformOverview()
				So(overview.TotalVolunteers, ShouldEqual, 3)
				So(overview.TotalOrganizations, ShouldEqual, 2)
				So(overview.TotalOpportunities, ShouldEqual, 2)
				So(svc.VolunteerHours("b"), ShouldEqual, 20.0)
			})
		})

		Convey("When feedback is recorded", func() {
			for _, rating := range []int{5, 3} {
				err := svc.Handle(ctx, model.Event{
					Kind:     model.KindFeedback,
					Feedback: &model.MatchFeedback{MatchID: "m1", Rating: rating},
				})
				So(err, ShouldBeNil)
			}

			Convey("Then the average rating and per-match history reflect it", func() {
				So(svc.AverageRating(), ShouldEqual, 4.0)
				So(svc.FeedbackForMatch("m1"), ShouldHaveLength, 2)
				So(svc.FeedbackForMatch("m2"), ShouldBeEmpty)
				So(svc.GetStats()["feedback"], ShouldEqual, 2)
			})
		})

		Convey("When nothing has been recorded", func() {
			Convey("Then queries return empty results", func() {
				So(svc.AverageRating(), ShouldEqual, 0.0)
				So(svc.Leaderboard(10), ShouldBeEmpty)
				So(svc.Badges("nobody"), ShouldBeEmpty)
				So(svc.TotalHours("nobody"), ShouldEqual, 0.0)
			})
		})
	})
}

func TestService_Recommendations(t *testing.T) {
	Convey("Given a service over a seeded store", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithStore(seededStore()), service.WithDefaultLimit(5))

		Convey("When recommending opportunities for a volunteer", func() {
			ranked, err := svc.RecommendForVolunteer(ctx, "v1", 0)

			Convey("Then the best match comes first and the default limit applies", func() {
				So(err, ShouldBeNil)
				So(ranked, ShouldHaveLength, 2)
				So(ranked[0].Item.ID, ShouldEqual, "o-python")
				So(ranked[0].Score, ShouldAlmostEqual, 0.9, 1e-12)
				So(ranked[0].Score, ShouldBeGreaterThanOrEqualTo, ranked[1].Score)
			})
		})

		Convey("When recommending volunteers for an opportunity with a limit", func() {
			ranked, err := svc.RecommendForOpportunity(ctx, "o-design", 1)

			Convey("Then only the top candidate is returned", func() {
				So(err, ShouldBeNil)
				So(ranked, ShouldHaveLength, 1)
				So(ranked[0].Item.ID, ShouldEqual, "v2")
			})
		})

		Convey("When the anchor does not exist", func() {
			_, errVol := svc.RecommendForVolunteer(ctx, "missing", 3)
			_, errOpp := svc.RecommendForOpportunity(ctx, "missing", 3)
			_, errPath := svc.LearningPath(ctx, "missing", 3)

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(errVol, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errOpp, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errPath, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When building a learning path", func() {
			path, err := svc.LearningPath(ctx, "v1", 3)

			Convey("Then it suggests opportunities and resources for desired skills", func() {
				So(err, ShouldBeNil)
				So(path.Opportunities, ShouldHaveLength, 1)
				So(path.Opportunities[0].Item.ID, ShouldEqual, "o-design")
				So(path.Resources, ShouldHaveLength, 1)
			})
		})

		Convey("When scoring every pair", func() {
			matrix, err := svc.ScoreAll(ctx)

			Convey("Then the matrix is indexed by opportunity then volunteer", func() {
				So(err, ShouldBeNil)
				So(matrix, ShouldHaveLength, 2)
				So(matrix[0], ShouldHaveLength, 2)
				So(matrix[0][0], ShouldAlmostEqual, 0.9, 1e-12)
			})
		})

		Convey("When the context is cancelled before scoring", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			matrix, err := svc.ScoreAll(cctx)

			Convey("Then the cancellation is reported", func() {
				So(matrix, ShouldBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
