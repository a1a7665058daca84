package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	"github.com/seraaj/matchcore/internal/config"
	"github.com/seraaj/matchcore/pkg/logger"
	"github.com/seraaj/matchcore/pkg/metrics"
)

func TestBuildService(t *testing.T) {
	convey.Convey("Given a loaded configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.WorkerCount = 2
		cfg.BadgeHourThresholds = []int{5}

		convey.Convey("When building the service without a seed", func() {
			svc, err := buildService(ctx, cfg, logger.Nop())

			convey.Convey("Then it uses the configured catalog and sizes", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.GetStats()["workerCount"], convey.ShouldEqual, 2)
				convey.So(svc.Catalog().Thresholds()[0].Badge, convey.ShouldEqual, "5 Hours")
			})
		})

		convey.Convey("When a seed file is configured", func() {
			path := filepath.Join(t.TempDir(), "seed.json")
			seed := `{"opportunities":[{"id":"o1","skills_weighted":{"go":3}}],"volunteers":[{"id":"v1","skill_proficiency":{"go":"expert"},"willing_to_remote":true}]}`
			convey.So(os.WriteFile(path, []byte(seed), 0o600), convey.ShouldBeNil)
			cfg.SeedPath = path

			svc, err := buildService(ctx, cfg, logger.Nop())

			convey.Convey("Then recommendations read the seeded snapshots", func() {
				convey.So(err, convey.ShouldBeNil)
				ranked, err := svc.RecommendForVolunteer(ctx, "v1", 0)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ranked, convey.ShouldHaveLength, 1)
				convey.So(ranked[0].Item.ID, convey.ShouldEqual, "o1")
			})
		})

		convey.Convey("When the seed file is malformed", func() {
			path := filepath.Join(t.TempDir(), "seed.json")
			convey.So(os.WriteFile(path, []byte(`{"volunteers":[{"id":""}]}`), 0o600), convey.ShouldBeNil)
			cfg.SeedPath = path

			_, err := buildService(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the badge thresholds repeat", func() {
			cfg.BadgeHourThresholds = []int{10, 10}
			_, err := buildService(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestOperationalMux(t *testing.T) {
	convey.Convey("Given the operational mux", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		svc, err := buildService(ctx, config.New(), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(svc)

		convey.Convey("When the service has not started", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			convey.Convey("Then health reports unavailable", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		convey.Convey("When the service is running", func() {
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			convey.Convey("Then health reports ready with stats", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var body struct {
					Ready bool                   `json:"ready"`
					Stats map[string]interface{} `json:"stats"`
				}
				convey.So(json.Unmarshal(rec.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body.Ready, convey.ShouldBeTrue)
				convey.So(body.Stats["started"], convey.ShouldEqual, true)
			})

			convey.Convey("And stats can be copied into gauges", func() {
				updateServiceMetrics(svc)
			})
		})

		convey.Convey("When metrics are scraped", func() {
			metrics.RecordEndorsement()
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			convey.Convey("Then the custom registry is exposed", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, "matchcore_")
			})
		})
	})
}
