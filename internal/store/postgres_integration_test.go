// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/signplot/signplot/internal/region"
	"github.com/signplot/signplot/internal/store"
	"github.com/signplot/signplot/internal/world"
)

// setupPostgresContainer starts a PostgreSQL container and migrates the
// schema, returning a connected pool.
func setupPostgresContainer() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("signplot_test"),
		postgres.WithUsername("signplot"),
		postgres.WithPassword("signplot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

var _ = Describe("PostgresRegionRepository", func() {
	var pool *pgxpool.Pool
	var repo *store.PostgresRegionRepository
	var cleanup func()

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		repo = store.NewPostgresRegionRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("Save and Get", func() {
		It("round-trips a region with sale flags and owners", func() {
			ctx := context.Background()
			owner := ulid.Make()

			r := region.New("plotA", world.Bounds{
				Min: world.Point{X: 0, Y: 0, Z: 0},
				Max: world.Point{X: 31, Y: 255, Z: 31},
			})
			r.Priority = 5
			r.Buyable = true
			price := 150.5
			r.Price = &price
			typ := "plot"
			r.Type = &typ
			r.AddOwner(owner)

			Expect(repo.Save(ctx, r)).To(Succeed())

			got, err := repo.Get(ctx, "plotA")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal("plotA"))
			Expect(got.Priority).To(Equal(5))
			Expect(got.Bounds).To(Equal(r.Bounds))
			Expect(got.Buyable).To(BeTrue())
			Expect(got.Price).To(HaveValue(Equal(150.5)))
			Expect(got.Type).To(HaveValue(Equal("plot")))
			Expect(got.BuyPermission).To(BeNil())
			Expect(got.Owners()).To(Equal([]ulid.ULID{owner}))
		})

		It("replaces the owner set on re-save", func() {
			ctx := context.Background()
			seller := ulid.Make()
			buyer := ulid.Make()

			r := region.New("plotB", world.Bounds{
				Max: world.Point{X: 15, Y: 255, Z: 15},
			})
			r.AddOwner(seller)
			Expect(repo.Save(ctx, r)).To(Succeed())

			r.ClearOwners()
			r.AddOwner(buyer)
			Expect(repo.Save(ctx, r)).To(Succeed())

			got, err := repo.Get(ctx, "plotB")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Owners()).To(Equal([]ulid.ULID{buyer}))
		})

		It("returns ErrNotFound for an unknown region", func() {
			ctx := context.Background()
			_, err := repo.Get(ctx, "ghost")
			Expect(err).To(MatchError(region.ErrNotFound))
		})

		It("rejects a buyable region without a price", func() {
			ctx := context.Background()
			r := region.New("broken", world.Bounds{
				Max: world.Point{X: 1, Y: 1, Z: 1},
			})
			r.Buyable = true

			Expect(repo.Save(ctx, r)).NotTo(Succeed())

			_, err := repo.Get(ctx, "broken")
			Expect(err).To(MatchError(region.ErrNotFound), "failed save must not leave a partial row")
		})
	})

	Describe("FindContaining", func() {
		BeforeEach(func() {
			ctx := context.Background()

			outer := region.New("outer", world.Bounds{
				Min: world.Point{X: 0, Y: 0, Z: 0},
				Max: world.Point{X: 63, Y: 255, Z: 63},
			})
			outer.Priority = 1

			inner := region.New("inner", world.Bounds{
				Min: world.Point{X: 10, Y: 0, Z: 10},
				Max: world.Point{X: 20, Y: 255, Z: 20},
			})
			inner.Priority = 10

			far := region.New("far", world.Bounds{
				Min: world.Point{X: 1000, Y: 0, Z: 1000},
				Max: world.Point{X: 1010, Y: 255, Z: 1010},
			})

			for _, r := range []*region.Region{outer, inner, far} {
				Expect(repo.Save(ctx, r)).To(Succeed())
			}
		})

		It("returns overlapping regions ordered by priority", func() {
			ctx := context.Background()
			found, err := repo.FindContaining(ctx, world.Point{X: 15, Y: 64, Z: 15})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(2))
			Expect(found[0].ID).To(Equal("inner"))
			Expect(found[1].ID).To(Equal("outer"))
		})

		It("returns nothing outside every region", func() {
			ctx := context.Background()
			found, err := repo.FindContaining(ctx, world.Point{X: -5, Y: 64, Z: -5})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeEmpty())
		})
	})

	Describe("ForEach", func() {
		It("visits every region and honors early stop", func() {
			ctx := context.Background()
			for _, id := range []string{"a", "b", "c"} {
				r := region.New(id, world.Bounds{Max: world.Point{X: 1, Y: 1, Z: 1}})
				Expect(repo.Save(ctx, r)).To(Succeed())
			}

			var all []string
			Expect(repo.ForEach(ctx, func(r *region.Region) bool {
				all = append(all, r.ID)
				return true
			})).To(Succeed())
			Expect(all).To(Equal([]string{"a", "b", "c"}))

			var first []string
			Expect(repo.ForEach(ctx, func(r *region.Region) bool {
				first = append(first, r.ID)
				return false
			})).To(Succeed())
			Expect(first).To(HaveLen(1))
		})
	})
})

var _ = Describe("PostgresAccountLedger", func() {
	var pool *pgxpool.Pool
	var ledger *store.PostgresAccountLedger
	var cleanup func()

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		ledger = store.NewPostgresAccountLedger(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	It("reports affordability from a stored balance", func() {
		ctx := context.Background()
		player := ulid.Make()
		Expect(ledger.SetBalance(ctx, player, 100)).To(Succeed())

		ok, err := ledger.Has(ctx, player, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = ledger.Has(ctx, player, 100.01)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("treats a missing account as broke", func() {
		ctx := context.Background()
		ok, err := ledger.Has(ctx, ulid.Make(), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("withdraws atomically and refuses overdrafts", func() {
		ctx := context.Background()
		player := ulid.Make()
		Expect(ledger.SetBalance(ctx, player, 100)).To(Succeed())

		resp := ledger.Withdraw(ctx, player, 60)
		Expect(resp.OK).To(BeTrue())

		resp = ledger.Withdraw(ctx, player, 60)
		Expect(resp.OK).To(BeFalse())
		Expect(resp.Reason).NotTo(BeEmpty())

		ok, err := ledger.Has(ctx, player, 40)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue(), "failed withdrawal must not touch the balance")
	})

	It("creates an account on first deposit", func() {
		ctx := context.Background()
		player := ulid.Make()

		resp := ledger.Deposit(ctx, player, 42.5)
		Expect(resp.OK).To(BeTrue())

		ok, err := ledger.Has(ctx, player, 42.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("pays a sale through withdraw and deposit", func() {
		ctx := context.Background()
		buyer := ulid.Make()
		seller := ulid.Make()
		Expect(ledger.SetBalance(ctx, buyer, 150)).To(Succeed())

		Expect(ledger.Withdraw(ctx, buyer, 100).OK).To(BeTrue())
		Expect(ledger.Deposit(ctx, seller, 100).OK).To(BeTrue())

		ok, err := ledger.Has(ctx, buyer, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = ledger.Has(ctx, seller, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})
})
