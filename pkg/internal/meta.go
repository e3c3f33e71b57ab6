package internal

const AppVersion = "2.4.1"
