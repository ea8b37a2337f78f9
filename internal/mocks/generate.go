package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SourceResolver --dir ../usecase --output usecase --outpkg usecasemock --filename source_resolver_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename match_fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SnapshotRepository --dir ../domain/schedule --output domain/schedule --outpkg schedulemock --filename snapshot_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AuditLog --dir ../domain/schedule --output domain/schedule --outpkg schedulemock --filename audit_log_mock.go
