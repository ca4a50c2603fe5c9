package taskgen

import "fmt"

// FallbackTaskSet is the fixed set served when the completion is unusable.
// The wording is Kazakh, the language of the classrooms the tool was
// built for; only the topic varies.
func FallbackTaskSet(topic string) TaskSet {
	return TaskSet{
		Reading:  fmt.Sprintf("'%s' тақырыбына байланысты мәтінді оқып, негізгі ақпаратты бөліп көрсетіңіз.", topic),
		Writing:  fmt.Sprintf("'%s' тақырыбы бойынша қысқаша мақала жазыңыз.", topic),
		Speaking: fmt.Sprintf("'%s' тақырыбын ауызша түсіндіріп беріңіз.", topic),
	}
}
