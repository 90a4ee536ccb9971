//go:generate mockgen -source=../connection.go       -destination=./mock_connection.go       -package=mocks
//go:generate mockgen -source=../topic_mapper.go     -destination=./mock_topic_mapper.go     -package=mocks
//go:generate mockgen -source=../error_notifier.go   -destination=./mock_error_notifier.go   -package=mocks
//go:generate mockgen -source=../group_consumer.go   -destination=./mock_group_consumer.go   -package=mocks
//go:generate mockgen -source=../record_repository.go -destination=./mock_record_repository.go -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks

package mocks
