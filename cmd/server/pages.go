package main

// indexPage is the query form served at GET /.
const indexPage = `
<html>
<head>
    <title>Mixlab</title>
    <style>
        body { font-family: Arial; margin: 2em; background-color: #f7f7f7; }
        h1 { color: #333; }
        textarea { width: 100%; height: 100px; font-family: monospace; }
        button { margin-top: 10px; padding: 10px 15px; font-size: 16px; }
        pre { background: #eee; padding: 10px; border-radius: 5px; }
    </style>
</head>
<body>
    <h1>Mixlab</h1>
    <form method="POST" action="/query">
        <textarea name="sql"></textarea><br>
        <button type="submit">Run Query</button>
    </form>
</body>
</html>
`
