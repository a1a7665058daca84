package analytics_test

import (
	"testing"
	"time"

	"github.com/seraaj/matchcore/internal/domain/analytics"
	"github.com/seraaj/matchcore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func completion(vol, org, opp string, hours float64) model.Completion {
	return model.Completion{VolunteerID: vol, OrganizationID: org, OpportunityID: opp, Hours: hours}
}

func TestReports(t *testing.T) {
	Convey("Given a log of completions", t, func() {
		l := analytics.NewLog()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		l.Append(completion("v1", "org1", "o1", 2), now)
		l.Append(completion("v2", "org1", "o1", 3.5), now)
		l.Append(completion("v1", "org1", "o2", 1), now)
		l.Append(completion("v1", "org2", "o3", 4), now)
		records := l.Records()

		Convey("When reporting on one organization", func() {
			rep := analytics.ReportForOrganization("org1", records)

			Convey("Then hours are summed and participants counted once", func() {
				So(rep.OrganizationID, ShouldEqual, "org1")
				So(rep.TotalHours, ShouldAlmostEqual, 6.5, 1e-12)
				So(rep.OpportunitiesCompleted, ShouldEqual, 2)
				So(rep.UniqueVolunteers, ShouldEqual, 2)
			})
		})

		Convey("When the organization has no completions", func() {
			rep := analytics.ReportForOrganization("nobody", records)

			Convey("Then the report is zeroed", func() {
				So(rep.TotalHours, ShouldEqual, 0.0)
				So(rep.UniqueVolunteers, ShouldEqual, 0)
			})
		})

		Convey("Then the platform overview counts distinct participants", func() {
			So(analytics.Overview(records), ShouldResemble, analytics.PlatformOverview{
				TotalVolunteers:    2,
				TotalOrganizations: 2,
				TotalOpportunities: 3,
			})
		})

		Convey("Then volunteer hours span all organizations", func() {
			So(analytics.VolunteerHours("v1", records), ShouldEqual, 7.0)
			So(analytics.VolunteerHours("v9", records), ShouldEqual, 0.0)
		})

		Convey("Then the log keeps append order", func() {
			So(l.Len(), ShouldEqual, 4)
			So(records[0].VolunteerID, ShouldEqual, "v1")
			So(records[3].OrganizationID, ShouldEqual, "org2")
		})
	})
}
