//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"qrsafe/internal/adapters/postgres"
	"qrsafe/internal/domain"
	"qrsafe/internal/seed"
	"qrsafe/internal/services/curated"
)

type CuratedStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *postgres.DB
}

func TestCuratedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CuratedStoreSuite))
}

func (s *CuratedStoreSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("qr_safe"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = postgres.Connect(ctx, dsn, 4)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Migrate(ctx))
	// Re-running migrations is a no-op.
	s.Require().NoError(s.db.Migrate(ctx))
}

func (s *CuratedStoreSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *CuratedStoreSuite) SetupTest() {
	_, err := s.db.Pool.Exec(context.Background(), `TRUNCATE malicious_urls, verified_partners`)
	s.Require().NoError(err)
}

func (s *CuratedStoreSuite) TestMaliciousSubstringBothWays() {
	ctx := context.Background()
	s.Require().NoError(s.db.UpsertMalicious(ctx, domain.MaliciousEntry{URL: "http://evil.site", NormalizedURL: "evil.site", ThreatType: "malware"}))

	e, found, err := s.db.FindMalicious(ctx, "evil.site/download/installer.exe")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(domain.NormalizedURL("evil.site"), e.NormalizedURL)
	s.Nil(e.ThreatDetails)
	s.NotNil(e.ReportedDate)

	s.Require().NoError(s.db.UpsertMalicious(ctx, domain.MaliciousEntry{URL: "http://bad.example/page", NormalizedURL: "bad.example/page", ThreatType: "phishing"}))
	_, found, err = s.db.FindMalicious(ctx, "bad.example")
	s.Require().NoError(err)
	s.True(found)

	_, found, err = s.db.FindMalicious(ctx, "good.example")
	s.Require().NoError(err)
	s.False(found)
}

func (s *CuratedStoreSuite) TestWildcardCharactersAreLiteral() {
	ctx := context.Background()
	s.Require().NoError(s.db.UpsertMalicious(ctx, domain.MaliciousEntry{URL: "a_b.com", NormalizedURL: "a_b.com", ThreatType: "phishing"}))
	s.Require().NoError(s.db.UpsertVerified(ctx, domain.VerifiedEntry{URL: "x%y.com", NormalizedURL: "x%y.com", CompanyName: "X", VerificationDate: time.Now()}))

	_, found, err := s.db.FindMalicious(ctx, "axb.com")
	s.Require().NoError(err)
	s.False(found)

	_, found, err = s.db.FindVerified(ctx, "xzzy.com")
	s.Require().NoError(err)
	s.False(found)
}

func (s *CuratedStoreSuite) TestVerifiedPrefix() {
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.db.UpsertVerified(ctx, domain.VerifiedEntry{URL: "https://github.com", NormalizedURL: "github.com", CompanyName: "GitHub", VerificationDate: day}))

	e, found, err := s.db.FindVerified(ctx, "github.com/org/repo")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("GitHub", e.CompanyName)
	s.True(day.Equal(e.VerificationDate))

	_, found, err = s.db.FindVerified(ctx, "mygithub.com")
	s.Require().NoError(err)
	s.False(found)
}

func (s *CuratedStoreSuite) TestSeededMatcher() {
	ctx := context.Background()
	counts, err := seed.Load(ctx, s.db, time.Now())
	s.Require().NoError(err)
	s.Equal(seed.Counts{Verified: 10, Malicious: 6}, counts)

	// Seeding twice keeps one row per key.
	_, err = seed.Load(ctx, s.db, time.Now())
	s.Require().NoError(err)
	var n int
	s.Require().NoError(s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM malicious_urls`).Scan(&n))
	s.Equal(6, n)

	v, err := curated.New(s.db, nil).Match(ctx, "free-gift-now.click/claim")
	s.Require().NoError(err)
	s.True(v.Malicious())
}

func (s *CuratedStoreSuite) TestCancelledContextIsAnError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := s.db.FindMalicious(ctx, "x")
	s.Error(err)
}
