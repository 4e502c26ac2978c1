package engineobs

import (
	"context"

	"stock-quote-service/internal/interfaces"
	"stock-quote-service/internal/logger"
	"stock-quote-service/internal/types"
)

// observableEngine wraps an engine with span and timing instrumentation.
type observableEngine struct {
	inner interfaces.Engine
}

// Wrap adds observability middleware around an engine.
func Wrap(e interfaces.Engine) interfaces.Engine {
	return &observableEngine{inner: e}
}

func (o *observableEngine) GetStock(ctx context.Context, raw string) (*types.StockResult, error) {
	op := logger.StartOperation(ctx, "engine.GetStock", "query", raw)

	res, err := o.inner.GetStock(op.GetContext(), raw)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	op.End("symbol", res.Symbol, "market", string(res.Market), "source", res.Quote.Source)
	return res, nil
}
