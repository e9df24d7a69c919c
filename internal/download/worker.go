package download

import "sync"

// RunWorkers distribui URLs entre workers fixos lendo de um canal de jobs.
func RunWorkers(urls []string, workers int, fn func(url string)) {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				fn(u)
			}
		}()
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	wg.Wait()
}
