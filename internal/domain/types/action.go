package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"

	ActionPlanTrip       = "plan_trip"
	ActionUpdateSpeed    = "update_trip_speed"
	ActionStartDrive     = "start_drive"
	ActionStopDrive      = "stop_drive"
	ActionDriveTick      = "drive_tick"
	ActionDriveArrived   = "drive_arrived"
	ActionPublishEvent   = "publish_drive_event"
	ActionPersistTick    = "persist_drive_snapshot"
	ActionStreamSnapshot = "ws_stream_snapshot"
)
