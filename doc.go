// Package searchapi embeds the search front end in a Go program.
//
// The client talks to a Redis 8+ document store directly and applies the same
// keyword parsing, period resolution, ranking, category capping and highlight
// merging as the HTTP server.
//
//	client, _ := searchapi.New(ctx,
//	    searchapi.WithRedis("localhost:6379", ""),
//	    searchapi.WithDocumentIndex("articles", "articles:"),
//	)
//	defer client.Close()
//
//	docs, _ := client.Search(ctx, searchapi.Query{
//	    Keyword:    `+redis "query engine" -memcached`,
//	    Period:     "month",
//	    Sort:       searchapi.SortLatest,
//	    Categories: []string{"news", "blog"},
//	    Caps:       []int{5, 3},
//	})
//	for _, d := range docs {
//	    title, _ := d.Get("title")
//	    fmt.Println(title)
//	}
package searchapi
