package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency ограничивает число одновременных запросов.
const DefaultConcurrency = 8

// Request - описание одной независимой части работы: номер страницы,
// дата или другой идентификатор раздела данных.
type Request interface{}

// Result - итог обработки одного запроса: значение либо ошибка.
type Result struct {
	Value interface{}
	Err   error
}

// Worker - функция обработки одного запроса.
type Worker func(ctx context.Context, request Request) (interface{}, error)

// All выполняет worker для каждого запроса с ограничением числа
// одновременных запусков. Результаты возвращаются строго в порядке
// входного списка независимо от порядка завершения. Ошибка или паника
// в одном запросе записывается в его слот и не прерывает остальные.
func All(ctx context.Context, requests []Request, concurrency int, worker Worker) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]Result, len(requests))

	var group errgroup.Group
	group.SetLimit(concurrency)

	for i, request := range requests {
		group.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					results[i] = Result{Err: fmt.Errorf("fetch worker panic: %v", p)}
				}
			}()
			value, err := worker(ctx, request)
			results[i] = Result{Value: value, Err: err}
			return nil
		})
	}
	// воркеры всегда возвращают nil, Wait нужен только для ожидания
	_ = group.Wait()

	return results
}

// Errors собирает ошибки из результатов, сохраняя порядок слотов.
func Errors(results []Result) []error {
	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errs
}
