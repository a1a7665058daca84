package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seraaj/matchcore/internal/adapters/repository"
	"github.com/seraaj/matchcore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const seedJSON = `{
  "opportunities": [
    {"id": "o1", "organization_id": "org1", "title": "Tutor",
     "skills_weighted": {"teaching": 4}, "categories_weighted": {"education": 2},
     "availability_required": {"sat": ["am"]},
     "location": {"latitude": 31.95, "longitude": 35.91}},
    {"id": "o2", "title": "Remote dev", "skills_weighted": {"python": 5}}
  ],
  "volunteers": [
    {"id": "v1", "skill_proficiency": {"python": "Expert"}, "interest_level": {"education": "high"},
     "availability": {"sat": ["am", "pm"]}, "willing_to_remote": true, "desired_skills": ["teaching"]}
  ],
  "resources": [
    {"skill_name": "teaching", "url": "https://example.org/teach"}
  ]
}`

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := repository.NewMemoryStore()

		Convey("When looking up unknown ids", func() {
			_, errOpp := s.Opportunity(ctx, "nope")
			_, errVol := s.Volunteer(ctx, "nope")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(errOpp, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errVol, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When snapshots are stored and replaced", func() {
			So(s.PutOpportunity(ctx, &model.Opportunity{ID: "a", Title: "first"}), ShouldBeNil)
			So(s.PutOpportunity(ctx, &model.Opportunity{ID: "b"}), ShouldBeNil)
			So(s.PutOpportunity(ctx, &model.Opportunity{ID: "a", Title: "second"}), ShouldBeNil)

			Convey("Then replacement keeps the original position", func() {
				opps, err := s.Opportunities(ctx)
				So(err, ShouldBeNil)
				So(len(opps), ShouldEqual, 2)
				So(opps[0].ID, ShouldEqual, "a")
				So(opps[0].Title, ShouldEqual, "second")
				So(opps[1].ID, ShouldEqual, "b")
			})
		})

		Convey("When an opportunity has an out-of-range weight", func() {
			err := s.PutOpportunity(ctx, &model.Opportunity{ID: "a", SkillsWeighted: map[string]int{"go": 9}})

			Convey("Then it is rejected and not stored", func() {
				So(errors.Is(err, repository.ErrInvalidSnapshot), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "at most 5")
				opps, _ := s.Opportunities(ctx)
				So(opps, ShouldBeEmpty)
			})
		})

		Convey("When a volunteer has an unrecognized proficiency", func() {
			err := s.PutVolunteer(ctx, &model.VolunteerProfile{
				ID:               "v",
				SkillProficiency: map[string]model.Proficiency{"go": model.ParseProficiency("guru")},
			})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidSnapshot), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "unrecognized level")
			})
		})

		Convey("When snapshots lack ids or carry bad coordinates", func() {
			errID := s.PutVolunteer(ctx, &model.VolunteerProfile{})
			errLoc := s.PutOpportunity(ctx, &model.Opportunity{ID: "a", Location: &model.Location{Latitude: 120}})
			errNil := s.PutOpportunity(ctx, nil)
			errURL := s.AddResource(ctx, model.LearningResource{SkillName: "go", URL: "not a url"})

			Convey("Then each is rejected", func() {
				So(errors.Is(errID, repository.ErrInvalidSnapshot), ShouldBeTrue)
				So(errors.Is(errLoc, repository.ErrInvalidSnapshot), ShouldBeTrue)
				So(errors.Is(errNil, repository.ErrInvalidSnapshot), ShouldBeTrue)
				So(errors.Is(errURL, repository.ErrInvalidSnapshot), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore_Load(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON seed document", t, func() {
		s := repository.NewMemoryStore()

		Convey("When it is loaded", func() {
			So(s.Load(ctx, strings.NewReader(seedJSON)), ShouldBeNil)

			Convey("Then every snapshot is available", func() {
				o, v, r := s.Counts()
				So([]int{o, v, r}, ShouldResemble, []int{2, 1, 1})

				opp, err := s.Opportunity(ctx, "o1")
				So(err, ShouldBeNil)
				So(opp.Location, ShouldNotBeNil)
				So(opp.SkillsWeighted["teaching"], ShouldEqual, 4)

				remote, _ := s.Opportunity(ctx, "o2")
				So(remote.Location, ShouldBeNil)
			})

			Convey("Then level names decode case-insensitively", func() {
				vol, err := s.Volunteer(ctx, "v1")
				So(err, ShouldBeNil)
				So(vol.SkillProficiency["python"], ShouldEqual, model.Expert)
				So(vol.InterestLevel["education"], ShouldEqual, model.High)
			})
		})

		Convey("When the document is malformed or has unknown fields", func() {
			errSyntax := s.Load(ctx, strings.NewReader(`{"opportunities": [`))
			errField := s.Load(ctx, strings.NewReader(`{"candidates": []}`))

			Convey("Then loading fails with ErrInvalidSnapshot", func() {
				So(errors.Is(errSyntax, repository.ErrInvalidSnapshot), ShouldBeTrue)
				So(errors.Is(errField, repository.ErrInvalidSnapshot), ShouldBeTrue)
			})
		})

		Convey("When a volunteer level is unknown", func() {
			err := s.Load(ctx, strings.NewReader(`{"volunteers": [{"id": "v", "skill_proficiency": {"go": "wizard"}}]}`))

			Convey("Then the snapshot is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidSnapshot), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then loading stops", func() {
				So(errors.Is(s.Load(cctx, strings.NewReader(seedJSON)), context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When loading from a file", func() {
			path := filepath.Join(t.TempDir(), "seed.json")
			So(os.WriteFile(path, []byte(seedJSON), 0o600), ShouldBeNil)

			Convey("Then the file contents are stored", func() {
				So(s.LoadFile(ctx, path), ShouldBeNil)
				vols, _ := s.Volunteers(ctx)
				So(len(vols), ShouldEqual, 1)
				So(s.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.json")), ShouldNotBeNil)
			})
		})
	})
}
