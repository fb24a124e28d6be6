// Package notifier announces match news: new results, schedule changes and
// the upcoming fixture.
//
// Announcements are built from the difference between two snapshots and
// formatted as short posts. A Notifier delivers them: DryRunNotifier prints
// them, TwitterNotifier posts them through the Twitter v1.1 API using OAuth1
// credentials and TelegramNotifier sends them to a chat through the Bot API.
// Credentials are taken from the environment.
package notifier
