package config

type WorkerKeyStruct struct {
	StatsInvalidationQueue string
}

var WorkerKey = &WorkerKeyStruct{
	StatsInvalidationQueue: "stats_invalidation_queue",
}
