package shutdown_test

import (
	"errors"
	"fmt"

	"github.com/JailtonJunior94/graceful/pkg/shutdown"
)

func ExampleQueue_ExitGracefully() {
	queue, err := shutdown.New(nil,
		shutdown.WithoutSignals(),
		shutdown.WithExitFunc(func(code int) { fmt.Println("exit status:", code) }),
	)
	if err != nil {
		panic(err)
	}

	_ = queue.RegisterNamed("http", func() {
		fmt.Println("closing http server")
	})
	_ = queue.RegisterNamed("kafka", func() error {
		fmt.Println("flushing producer")
		return errors.New("broker unavailable")
	})
	_ = queue.RegisterNamed("postgres", func() *shutdown.Deferred {
		return shutdown.Go(func() error {
			fmt.Println("closing database pool")
			return nil
		})
	})

	queue.ExitGracefully()

	// Output:
	// closing http server
	// flushing producer
	// closing database pool
	// exit status: 1
}

func ExampleQueue_Register_invalid() {
	queue, _ := shutdown.New(nil, shutdown.WithoutSignals())

	err := queue.Register("not a function")

	fmt.Println(errors.Is(err, shutdown.ErrInvalidHandler))
	fmt.Println(queue.Pending())

	// Output:
	// true
	// 0
}
