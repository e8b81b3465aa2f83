package service

import (
	"context"
	"fmt"

	"society-console/internal/repository"
	"society-console/internal/scope"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchCollections 并发抓取一个周期所需的全部集合。
// 财务数据全有或全无：任一失败整个抓取失败；楼栋名称是参考数据，失败时为空。
func FetchCollections(ctx context.Context, src repository.CollectionSource, logger *zap.Logger) (scope.Collections, error) {
	var out scope.Collections
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wings, err := src.ListWings(gctx)
		if err != nil {
			logger.Warn("Wing names unavailable, continuing without them", zap.Error(err))
			return nil
		}
		out.Wings = wings
		return nil
	})
	g.Go(fetchInto(gctx, "owners", src.ListOwners, &out.Owners))
	g.Go(fetchInto(gctx, "rentals", src.ListRentals, &out.Rentals))
	g.Go(fetchInto(gctx, "maintenance", src.ListMaintenance, &out.Maintenance))
	g.Go(fetchInto(gctx, "expenses", src.ListExpenses, &out.Expenses))
	g.Go(fetchInto(gctx, "activity payments", src.ListActivityPayments, &out.ActivityPayments))
	g.Go(fetchInto(gctx, "activity expenses", src.ListActivityExpenses, &out.ActivityExpenses))
	g.Go(fetchInto(gctx, "meetings", src.ListMeetings, &out.Meetings))

	if err := g.Wait(); err != nil {
		return scope.Collections{}, err
	}
	return out, nil
}

func fetchInto[T any](ctx context.Context, name string, list func(context.Context) ([]T, error), dst *[]T) func() error {
	return func() error {
		rows, err := list(ctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", name, err)
		}
		*dst = rows
		return nil
	}
}
